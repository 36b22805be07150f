package models

// Document is a catalogued reference file stored in the document archive
type Document struct {
	ID           uint   `gorm:"primaryKey"`
	FileName     string `gorm:"column:file_name;type:text;not null"`
	Title        string `gorm:"type:text"`
	CategoryID   uint   `gorm:"column:category_id;not null"`
	DisciplineID uint   `gorm:"column:discipline_id;not null"`
	Level3ID     *uint  `gorm:"column:level3_id"`
	User         string `gorm:"column:user;type:text"`
	// TimeAdded is stored as unix seconds
	TimeAdded   int64  `gorm:"column:time_added;not null"`
	ContentHash string `gorm:"column:content_hash;type:text"`
}

func (Document) TableName() string {
	return "documents"
}

// Tag is a freeform, user-extensible document label
type Tag struct {
	ID  uint   `gorm:"primaryKey"`
	Tag string `gorm:"column:tag;type:text;not null;uniqueIndex"`
}

func (Tag) TableName() string {
	return "tags"
}

// Junction links one document to one tag. Name is "<tag_id>.<doc_id>".
type Junction struct {
	Name  string `gorm:"primaryKey;type:text"`
	TagID uint   `gorm:"column:tag_id;not null;index:idx_junction_tag"`
	DocID uint   `gorm:"column:doc_id;not null;index:idx_junction_doc"`
}

func (Junction) TableName() string {
	return "junction_table"
}
