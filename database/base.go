package database

type BaseModel struct {
	Id int64 `gorm:"primaryKey"`
}
