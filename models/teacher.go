package models

import "gradebook/database"

type Teacher struct {
	database.BaseModel
	Name string `gorm:"type:varchar(150);not null;index"`
}
