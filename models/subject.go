package models

import "gradebook/database"

type Subject struct {
	database.BaseModel
	Name      string `gorm:"not null;index"`
	TeacherId int64  `gorm:"not null"`
	Teacher   *Teacher
}
