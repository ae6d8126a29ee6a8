package template

import "mes-worklog/internal/constants"

// StandardParts are the canonical four part labels shared by the press,
// post-process and inspection layouts. The daily series aggregation buckets
// by exactly these labels.
var StandardParts = []string{"FRT LH", "FRT RH", "RR LH", "RR RH"}

// GN7 runs six press/post parts instead of four.
var gn7Parts = []string{"FRT LH", "FRT RH", "CTR LH", "CTR RH", "RR LH", "RR RH"}

var registry = map[constants.ProcessCategory]*Template{
	constants.ProcessMaterial: mustBuild(constants.ProcessMaterial,
		[]ColumnDef{
			{Key: "qty", Label: "작업수량", Type: TypeNumber, Role: RoleQuantity},
			{Key: "spec_start", Label: "초물(길이)", Type: TypeText, Role: RolePlain},
			{Key: "spec_mid", Label: "중물(길이)", Type: TypeText, Role: RolePlain},
			{Key: "spec_end", Label: "종물(길이)", Type: TypeText, Role: RolePlain},
			{Key: "lot", Label: "Lot No", Type: TypeText, Role: RolePlain},
		},
		rowTable{
			// KGM models prep model-specific lots, the rest share the
			// generic material groupings.
			byGroup: map[constants.ModelGroup][]string{
				constants.GroupKGM: {"J100 RR", "J120", "O100", "기타"},
			},
			base: []string{"FRT A", "FRT B", "RR A", "RR B", "RR C", "RR D"},
		},
	),

	constants.ProcessPress: mustBuild(constants.ProcessPress,
		[]ColumnDef{
			{Key: "fmb_lot", Label: "FMB LOT", Type: TypeText, Role: RolePlain},
			{Key: "lot_a", Label: "A소재 LOT", Type: TypeText, Role: RolePlain},
			{Key: "lot_b", Label: "B소재 LOT", Type: TypeText, Role: RolePlain},
			{Key: "lot_c", Label: "C소재 LOT", Type: TypeText, Role: RolePlain},
			{Key: "lot_d", Label: "D소재 LOT", Type: TypeText, Role: RolePlain},
			{Key: "qty", Label: "생산수량", Type: TypeNumber, Role: RoleQuantity},
			{Key: "defect_qty", Label: "불량수량", Type: TypeNumber, Role: RoleItemized},
			{Key: "good_qty", Label: "양품수량", Type: TypeNumber, Role: RoleDerived},
		},
		rowTable{
			byModel: map[string][]string{"GN7": gn7Parts},
			base:    StandardParts,
		},
	),

	constants.ProcessPost: mustBuild(constants.ProcessPost,
		[]ColumnDef{
			{Key: "qty", Label: "생산수량", Type: TypeNumber, Role: RoleQuantity},
			{Key: "lot_a", Label: "A소재 LOT", Type: TypeText, Role: RolePlain},
			{Key: "lot_b", Label: "B소재 LOT", Type: TypeText, Role: RolePlain},
			{Key: "lot_c", Label: "C소재 LOT", Type: TypeText, Role: RolePlain},
			{Key: "lot_d", Label: "D소재 LOT", Type: TypeText, Role: RolePlain},
			{Key: "defect_finish", Label: "사상불량", Type: TypeNumber, Role: RoleDefect},
			{Key: "defect_trans", Label: "운반파손", Type: TypeNumber, Role: RoleDefect},
			{Key: "defect_poll", Label: "외면오염", Type: TypeNumber, Role: RoleDefect},
		},
		rowTable{
			byModel: map[string][]string{"GN7": gn7Parts},
			base:    StandardParts,
		},
	),

	constants.ProcessInspection: mustBuild(constants.ProcessInspection,
		[]ColumnDef{
			{Key: "check_qty", Label: "검사수량", Type: TypeNumber, Role: RoleQuantity},
			{Key: "lot_a", Label: "A소재 LOT", Type: TypeText, Role: RolePlain},
			{Key: "lot_b", Label: "B소재 LOT", Type: TypeText, Role: RolePlain},
			{Key: "lot_c", Label: "C소재 LOT", Type: TypeText, Role: RolePlain},
			{Key: "lot_d", Label: "D소재 LOT", Type: TypeText, Role: RolePlain},
			{Key: "dim_start", Label: "치수(초)", Type: TypeText, Role: RolePhoto},
			{Key: "dim_mid", Label: "치수(중)", Type: TypeText, Role: RolePhoto},
			{Key: "dim_end", Label: "치수(종)", Type: TypeText, Role: RolePhoto},
			{Key: "defect_total", Label: "불량수량", Type: TypeNumber, Role: RoleItemized},
		},
		rowTable{
			// KGM inspection collapses to LH/RH.
			byGroup: map[constants.ModelGroup][]string{
				constants.GroupKGM: {"LH", "RH"},
			},
			base: StandardParts,
		},
	),
}

// Get returns the template of a process category.
func Get(category constants.ProcessCategory) (*Template, bool) {
	t, ok := registry[category]
	return t, ok
}

// ByProcess resolves a stored process name to its template.
func ByProcess(process string) (*Template, bool) {
	return Get(constants.ParseProcess(process))
}

// All returns the registry in category order, for the template API.
func All() []*Template {
	out := make([]*Template, 0, len(registry))
	for _, cat := range []constants.ProcessCategory{
		constants.ProcessMaterial,
		constants.ProcessPress,
		constants.ProcessPost,
		constants.ProcessInspection,
	} {
		out = append(out, registry[cat])
	}
	return out
}
