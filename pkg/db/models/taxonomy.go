package models

type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:text;not null;uniqueIndex"`
}

func (Category) TableName() string {
	return "categories"
}

type Discipline struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:text;not null;uniqueIndex"`
}

func (Discipline) TableName() string {
	return "disciplines"
}

// Level3 is a subcategory that is only valid within one category and discipline pair.
// The (category, discipline, name) triple is not unique.
type Level3 struct {
	ID           uint   `gorm:"primaryKey"`
	CategoryID   uint   `gorm:"column:category_id;not null;index:idx_level3_scope"`
	DisciplineID uint   `gorm:"column:discipline_id;not null;index:idx_level3_scope"`
	Name         string `gorm:"type:text;not null"`
}

func (Level3) TableName() string {
	return "level3"
}
