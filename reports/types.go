package reports

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type StudentAverage struct {
	Name     string          `json:"name"`
	AvgGrade decimal.Decimal `json:"avg_grade"`
}

type StudentSubjectAverage struct {
	Name        string          `json:"name"`
	SubjectName string          `json:"subject_name"`
	AvgGrade    decimal.Decimal `json:"avg_grade"`
}

type GroupSubjectAverage struct {
	GroupName   string          `json:"group_name"`
	SubjectName string          `json:"subject_name"`
	AvgGrade    decimal.Decimal `json:"avg_grade"`
}

type TeacherSubject struct {
	TeacherName string `json:"teacher_name"`
	SubjectName string `json:"subject_name"`
}

type GroupSubjectGrade struct {
	StudentName string    `json:"student_name"`
	SubjectName string    `json:"subject_name"`
	GroupName   string    `json:"group_name"`
	Grade       float64   `json:"grade"`
	Date        time.Time `json:"date"`
}

type TeacherSubjectAverage struct {
	TeacherName string          `json:"teacher_name"`
	Subject     string          `json:"subject"`
	AvgGrade    decimal.Decimal `json:"avg_grade"`
}

type StudentSubject struct {
	StudentName string `json:"student_name"`
	Subject     string `json:"subject"`
}

type StudentTeacherSubject struct {
	Student string `json:"student"`
	Teacher string `json:"teacher"`
	Subject string `json:"subject"`
}

type StudentGroups struct {
	Name   string         `json:"name"`
	Groups pq.StringArray `json:"groups"`
}

type overallAverage struct {
	AvgGrade decimal.NullDecimal
}
