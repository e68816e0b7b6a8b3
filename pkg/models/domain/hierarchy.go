package domain

// RowKind discriminates the rows of the expandable region/item table.
type RowKind string

const (
	RowRegion RowKind = "region"
	RowItem   RowKind = "item"
	RowTotal  RowKind = "total"
)

// HierarchyRow is one renderable row of the two-level capacity table.
// Item rows carry the name of their parent region so a click handler can
// address the region directly instead of reconstructing it from the row
// position.
type HierarchyRow struct {
	Kind       RowKind
	Name       string
	Region     string // parent region, set on item rows only
	Total      float64
	Percentage float64
	Expanded   bool // meaningful on region rows only
}
