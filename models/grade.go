package models

import (
	"gradebook/database"
	"time"
)

// Grade rows keep the default (NO ACTION) foreign keys: a student or subject
// that still has grades cannot be deleted.
type Grade struct {
	database.BaseModel
	Grade     float64   `gorm:"not null"`
	DateOf    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	StudentId int64     `gorm:"not null"`
	Student   *Student
	SubjectId int64 `gorm:"not null"`
	Subject   *Subject
}
