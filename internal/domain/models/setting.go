package models

import "time"

// Setting is a named system value, upserted by name.
type Setting struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"size:128;not null;uniqueIndex"`
	Value       string    `json:"value" gorm:"type:text;not null"`
	Description string    `json:"description" gorm:"type:text"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
