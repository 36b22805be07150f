package models

import "time"

// Part is a catalogued component, identified by part number and revision
type Part struct {
	PartNum string `gorm:"column:part_num;primaryKey;type:text"`
	PartRev string `gorm:"column:part_rev;primaryKey;type:text"`

	PartType    *string `gorm:"column:part_type;type:text"`
	Name        *string `gorm:"type:text"`
	Description *string `gorm:"type:text"`
	Drawing     *string `gorm:"type:text"`

	// Successor references the part+rev that supersedes this one
	SuccessorNum *string `gorm:"type:text"`
	SuccessorRev *string `gorm:"type:text"`

	// Mugshot is the image name (hash + extension) of one of the part's images
	Mugshot *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Part) TableName() string {
	return "parts"
}

// Image is a content-addressed picture attached to a part revision
type Image struct {
	PartNum     string  `gorm:"column:part_num;primaryKey;type:text"`
	PartRev     string  `gorm:"column:part_rev;primaryKey;type:text"`
	Image       string  `gorm:"column:image;primaryKey;type:text"`
	Description *string `gorm:"type:text"`

	CreatedAt time.Time
}

func (Image) TableName() string {
	return "images"
}

// Note is an append-only remark on a part revision
type Note struct {
	ID      uint      `gorm:"primaryKey"`
	PartNum string    `gorm:"column:part_num;type:text;not null;index:idx_notes_part"`
	PartRev string    `gorm:"column:part_rev;type:text;not null;index:idx_notes_part"`
	Author  string    `gorm:"type:text;not null"`
	Date    time.Time `gorm:"not null"`
	Note    string    `gorm:"column:note;type:text;not null"`
}

func (Note) TableName() string {
	return "notes"
}
