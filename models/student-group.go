package models

// StudentGroup is the student<->group association. Rows are removed together
// with either side.
type StudentGroup struct {
	StudentId int64    `gorm:"primaryKey;autoIncrement:false"`
	Student   *Student `gorm:"constraint:OnDelete:CASCADE"`
	GroupId   int64    `gorm:"primaryKey;autoIncrement:false"`
	Group     *Group   `gorm:"constraint:OnDelete:CASCADE"`
}

func (StudentGroup) TableName() string {
	return "student_groups_association"
}
