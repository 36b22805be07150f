package models

import "time"

// Child is a directed assembly edge: the parent part physically contains the child part.
// Endpoints are not foreign keys; either side may reference a part without a Parts row.
type Child struct {
	ID       uint   `gorm:"primaryKey"`
	PartNum  string `gorm:"column:part_num;type:text;not null;uniqueIndex:idx_children_edge;index:idx_children_parent"`
	PartRev  string `gorm:"column:part_rev;type:text;not null;uniqueIndex:idx_children_edge;index:idx_children_parent"`
	ChildNum string `gorm:"column:child_num;type:text;not null;uniqueIndex:idx_children_edge;index:idx_children_child"`
	ChildRev string `gorm:"column:child_rev;type:text;not null;uniqueIndex:idx_children_edge;index:idx_children_child"`

	CreatedAt time.Time
}

func (Child) TableName() string {
	return "children"
}

// RelatedPart is the projection returned by parent/child listings. Name is nil when the
// related part has no Parts row or no recorded name.
type RelatedPart struct {
	PartNum string
	PartRev string
	Name    *string
}
