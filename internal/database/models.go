package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContactSubmission is one row per submitted contact form.
// Rows are append-only; the application never updates or deletes them.
type ContactSubmission struct {
	gorm.Model
	Name    string `gorm:"size:255"`
	Email   string `gorm:"size:255;index"`
	Phone   string `gorm:"size:64"`
	Message string `gorm:"type:text"`
}

// CareerApplication is one row per submitted job application.
// ResumeURL points at the uploaded blob; ResumeMeta carries the original
// filename, MIME type, size and object key as JSONB so signed links can be
// regenerated after the stored one expires.
type CareerApplication struct {
	gorm.Model
	Name            string         `gorm:"size:255"`
	Email           string         `gorm:"size:255;index"`
	Phone           string         `gorm:"size:64"`
	PositionApplied string         `gorm:"size:255;index"`
	CoverLetter     string         `gorm:"type:text"`
	ResumeURL       string         `gorm:"size:2048"`
	ResumeMeta      datatypes.JSON `gorm:"type:jsonb"`
	Status          string         `gorm:"size:32;default:New"`
}
