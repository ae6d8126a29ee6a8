package template

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mes-worklog/internal/constants"
)

func TestRegistry_AllCategoriesPresent(t *testing.T) {
	for _, cat := range []constants.ProcessCategory{
		constants.ProcessMaterial,
		constants.ProcessPress,
		constants.ProcessPost,
		constants.ProcessInspection,
	} {
		tpl, ok := Get(cat)
		assert.True(t, ok, "category %s", cat)
		assert.NotEmpty(t, tpl.Columns)
		assert.NotEmpty(t, tpl.QuantityKey())
	}
}

func TestRegistry_ColumnKeysUnique(t *testing.T) {
	for _, tpl := range All() {
		seen := map[string]bool{}
		for _, col := range tpl.Columns {
			assert.False(t, seen[col.Key], "template %s: duplicate key %s", tpl.Category, col.Key)
			seen[col.Key] = true
		}
	}
}

func TestRegistry_AtMostOneDerivedAndItemized(t *testing.T) {
	for _, tpl := range All() {
		derived, itemized := 0, 0
		for _, col := range tpl.Columns {
			switch col.Role {
			case RoleDerived:
				derived++
			case RoleItemized:
				itemized++
			}
		}
		assert.LessOrEqual(t, derived, 1, "template %s", tpl.Category)
		assert.LessOrEqual(t, itemized, 1, "template %s", tpl.Category)
	}
}

func TestPressTemplate_Keys(t *testing.T) {
	tpl, _ := Get(constants.ProcessPress)

	assert.Equal(t, "qty", tpl.QuantityKey())
	assert.Equal(t, "good_qty", tpl.DerivedKey())
	assert.Equal(t, "defect_qty", tpl.ItemizedKey())
	assert.Equal(t, []string{"defect_qty"}, tpl.DefectKeys())
}

func TestPostTemplate_NoDerived(t *testing.T) {
	tpl, _ := Get(constants.ProcessPost)

	assert.Empty(t, tpl.DerivedKey())
	assert.Empty(t, tpl.ItemizedKey())
	assert.Equal(t, []string{"defect_finish", "defect_trans", "defect_poll"}, tpl.DefectKeys())
}

func TestInspectionTemplate_Keys(t *testing.T) {
	tpl, _ := Get(constants.ProcessInspection)

	assert.Equal(t, "check_qty", tpl.QuantityKey())
	assert.Equal(t, "defect_total", tpl.ItemizedKey())
	assert.Empty(t, tpl.DerivedKey())
}

func TestRowsFor_ModelVariants(t *testing.T) {
	press, _ := Get(constants.ProcessPress)
	assert.Equal(t, StandardParts, press.RowsFor("DN8"))
	assert.Len(t, press.RowsFor("GN7"), 6)

	inspection, _ := Get(constants.ProcessInspection)
	assert.Equal(t, StandardParts, inspection.RowsFor("DN8"))
	for _, kgm := range []string{"J100", "J120", "O100"} {
		assert.Equal(t, []string{"LH", "RH"}, inspection.RowsFor(kgm), kgm)
	}

	material, _ := Get(constants.ProcessMaterial)
	assert.Equal(t, []string{"FRT A", "FRT B", "RR A", "RR B", "RR C", "RR D"}, material.RowsFor("LF"))
	assert.Equal(t, []string{"J100 RR", "J120", "O100", "기타"}, material.RowsFor("J120"))
}

func TestRowsFor_UnknownModelFallsBack(t *testing.T) {
	press, _ := Get(constants.ProcessPress)
	assert.Equal(t, StandardParts, press.RowsFor("NEW-MODEL"))
}

func TestRowsFor_ReturnsCopy(t *testing.T) {
	press, _ := Get(constants.ProcessPress)
	rows := press.RowsFor("DN8")
	rows[0] = "mutated"
	assert.Equal(t, "FRT LH", press.RowsFor("DN8")[0])
}

func TestRowTable_NoRowsDefined(t *testing.T) {
	tpl, err := build(constants.ProcessMaterial,
		[]ColumnDef{{Key: "qty", Label: "x", Type: TypeNumber, Role: RoleQuantity}},
		rowTable{})
	assert.NoError(t, err)
	assert.Empty(t, tpl.RowsFor("DN8"))
}

func TestBuild_RejectsInvalidTemplates(t *testing.T) {
	_, err := build(constants.ProcessPress, []ColumnDef{
		{Key: "qty", Type: TypeNumber, Role: RoleQuantity},
		{Key: "qty", Type: TypeNumber, Role: RolePlain},
	}, rowTable{})
	assert.Error(t, err)

	_, err = build(constants.ProcessPress, []ColumnDef{
		{Key: "a", Type: TypeNumber, Role: RoleDerived},
		{Key: "b", Type: TypeNumber, Role: RoleDerived},
	}, rowTable{})
	assert.Error(t, err)

	_, err = build(constants.ProcessPress, []ColumnDef{
		{Key: "a", Type: TypeText, Role: RoleDerived},
	}, rowTable{})
	assert.Error(t, err)
}

func TestByProcess(t *testing.T) {
	tpl, ok := ByProcess("프레스")
	assert.True(t, ok)
	assert.Equal(t, constants.ProcessPress, tpl.Category)

	tpl, ok = ByProcess("검사")
	assert.True(t, ok)
	assert.Equal(t, constants.ProcessInspection, tpl.Category)
}
