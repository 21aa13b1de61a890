package models

import "gradebook/database"

type Student struct {
	database.BaseModel
	Name string `gorm:"type:varchar(150);not null;index;check:chk_students_name_not_empty,name <> ''"`
}
