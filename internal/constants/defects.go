package constants

// DefectType is one entry of the itemized defect registry. Declaration order
// is stable and is the tie-break for the defect ranking.
type DefectType struct {
	Key   string
	Label string
	Group string
}

// Defect groups, presentation only. Sums are flat across groups.
const (
	DefectGroupMaterial = "소재성"
	DefectGroupPress    = "성형성"
	DefectGroupFinish   = "후공정"
)

var DefectTypes = []DefectType{
	{Key: "scorch_a", Label: "스코치A", Group: DefectGroupMaterial},
	{Key: "scorch_b", Label: "스코치B", Group: DefectGroupMaterial},
	{Key: "bubble", Label: "기포", Group: DefectGroupMaterial},
	{Key: "foreign", Label: "이물", Group: DefectGroupMaterial},
	{Key: "push", Label: "밀림", Group: DefectGroupPress},
	{Key: "drop", Label: "떨어짐", Group: DefectGroupPress},
	{Key: "step", Label: "단차", Group: DefectGroupPress},
	{Key: "short", Label: "양부족", Group: DefectGroupPress},
	{Key: "detach", Label: "박리", Group: DefectGroupPress},
	{Key: "finish", Label: "사상불량", Group: DefectGroupFinish},
	{Key: "trans", Label: "운반파손", Group: DefectGroupFinish},
	{Key: "poll", Label: "외면오염", Group: DefectGroupFinish},
}

var defectOrder = func() map[string]int {
	m := make(map[string]int, len(DefectTypes))
	for i, d := range DefectTypes {
		m[d.Key] = i
	}
	return m
}()

// DefectOrder returns the declaration index of a defect key. Unknown keys
// sort after all registered ones.
func DefectOrder(key string) int {
	if i, ok := defectOrder[key]; ok {
		return i
	}
	return len(DefectTypes)
}

// DefectLabel maps a defect key back to its display label. Unknown keys are
// shown as-is.
func DefectLabel(key string) string {
	if i, ok := defectOrder[key]; ok {
		return DefectTypes[i].Label
	}
	return key
}

// DefectsByGroup returns the registry split by group, registry order kept
// inside each group.
func DefectsByGroup() map[string][]DefectType {
	m := make(map[string][]DefectType)
	for _, d := range DefectTypes {
		m[d.Group] = append(m[d.Group], d)
	}
	return m
}
