package template

import (
	"fmt"

	"mes-worklog/internal/constants"
)

// ValueType of an input cell. Photo-capable columns stay text-typed; the
// cell value itself carries the image kind.
type ValueType string

const (
	TypeNumber ValueType = "number"
	TypeText   ValueType = "text"
)

// Role is the closed set of column roles. Exactly the role decides how the
// form engine treats a cell: quantity and defect columns feed the rollup
// totals, a derived column is computed and never user-editable, an itemized
// column is backed by the per-row defect ledger, a photo column may hold an
// image reference.
type Role string

const (
	RolePlain    Role = "plain"
	RoleQuantity Role = "quantity"
	RoleDefect   Role = "defect"
	RoleDerived  Role = "derived"
	RolePhoto    Role = "photo"
	RoleItemized Role = "itemized"
)

// CountsAsDefect reports whether the column contributes to the defect total.
func (r Role) CountsAsDefect() bool { return r == RoleDefect || r == RoleItemized }

type ColumnDef struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Type  ValueType `json:"type"`
	Role  Role      `json:"role"`
}

// rowTable resolves the row labels of a template for a model: a per-model
// override first, then the model-group set, then the default. All row
// variation is data here, never branching at call sites.
type rowTable struct {
	byModel map[string][]string
	byGroup map[constants.ModelGroup][]string
	base    []string
}

func (t rowTable) rowsFor(model string) []string {
	if rows, ok := t.byModel[model]; ok {
		return rows
	}
	if rows, ok := t.byGroup[constants.GroupOf(model)]; ok {
		return rows
	}
	return t.base
}

// Template is the immutable column/row layout of one process category.
type Template struct {
	Category constants.ProcessCategory `json:"category"`
	Columns  []ColumnDef               `json:"columns"`

	rows rowTable

	quantityKey string
	derivedKey  string
	itemizedKey string
	defectKeys  []string
	byKey       map[string]int
}

// RowsFor returns the ordered row labels for a model. A combination with no
// rows defined returns an empty list, never fails.
func (t *Template) RowsFor(model string) []string {
	rows := t.rows.rowsFor(model)
	out := make([]string, len(rows))
	copy(out, rows)
	return out
}

// Column looks up a column by key.
func (t *Template) Column(key string) (ColumnDef, bool) {
	if i, ok := t.byKey[key]; ok {
		return t.Columns[i], true
	}
	return ColumnDef{}, false
}

// QuantityKey is the key of the quantity column ("" if the template has
// none).
func (t *Template) QuantityKey() string { return t.quantityKey }

// DerivedKey is the key of the derived good-quantity column, "" when the
// template defines none.
func (t *Template) DerivedKey() string { return t.derivedKey }

// ItemizedKey is the key of the itemized-defect popup column, "" when the
// template defines none.
func (t *Template) ItemizedKey() string { return t.itemizedKey }

// DefectKeys are the keys contributing to the defect total, in column order.
func (t *Template) DefectKeys() []string {
	out := make([]string, len(t.defectKeys))
	copy(out, t.defectKeys)
	return out
}

func build(category constants.ProcessCategory, columns []ColumnDef, rows rowTable) (*Template, error) {
	t := &Template{
		Category: category,
		Columns:  columns,
		rows:     rows,
		byKey:    make(map[string]int, len(columns)),
	}

	for i, col := range columns {
		if _, dup := t.byKey[col.Key]; dup {
			return nil, fmt.Errorf("template %s: duplicate column key %q", category, col.Key)
		}
		t.byKey[col.Key] = i

		switch col.Role {
		case RoleQuantity:
			if t.quantityKey != "" {
				return nil, fmt.Errorf("template %s: second quantity column %q", category, col.Key)
			}
			t.quantityKey = col.Key
		case RoleDerived:
			if t.derivedKey != "" {
				return nil, fmt.Errorf("template %s: second derived column %q", category, col.Key)
			}
			if col.Type != TypeNumber {
				return nil, fmt.Errorf("template %s: derived column %q must be numeric", category, col.Key)
			}
			t.derivedKey = col.Key
		case RoleItemized:
			if t.itemizedKey != "" {
				return nil, fmt.Errorf("template %s: second itemized column %q", category, col.Key)
			}
			t.itemizedKey = col.Key
		}

		if col.Role.CountsAsDefect() {
			t.defectKeys = append(t.defectKeys, col.Key)
		}
	}

	return t, nil
}

func mustBuild(category constants.ProcessCategory, columns []ColumnDef, rows rowTable) *Template {
	t, err := build(category, columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}
