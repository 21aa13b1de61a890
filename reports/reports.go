// Package reports holds the read-only queries over the gradebook schema.
//
// Every name parameter is optional. An empty name is replaced, per call, by a
// name picked from the database through the configured Picker; when the
// table it is picked from is empty the report is empty as well.
package reports

import (
	"context"
	"fmt"

	"gradebook/database"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ReportTopStudents             = "top-students"
	ReportTopStudentForSubject    = "top-student"
	ReportGroupAveragesForSubject = "group-averages"
	ReportOverallAverage          = "average"
	ReportSubjectsByTeacher       = "teacher-subjects"
	ReportStudentsInGroup         = "group-students"
	ReportGroupSubjectGrades      = "group-grades"
	ReportTeacherSubjectAverages  = "teacher-averages"
	ReportSubjectsForStudent      = "student-subjects"
	ReportStudentTeacherSubjects  = "student-teacher-subjects"
	ReportStudentGroups           = "student-groups"
)

type CatalogEntry struct {
	Name  string
	Title string
}

// Catalog lists the reports in presentation order.
var Catalog = []CatalogEntry{
	{ReportTopStudents, "Top 5 students by average grade"},
	{ReportTopStudentForSubject, "Top student by average grade by subject"},
	{ReportGroupAveragesForSubject, "Average grade by group"},
	{ReportOverallAverage, "The average grade for the whole stream"},
	{ReportSubjectsByTeacher, "All the subjects taught by a given teacher"},
	{ReportStudentsInGroup, "Students in a group"},
	{ReportGroupSubjectGrades, "Student grades by group and subject"},
	{ReportTeacherSubjectAverages, "Average grade given by teacher for subjects"},
	{ReportSubjectsForStudent, "Subjects taken by student"},
	{ReportStudentTeacherSubjects, "Subjects taken by student with specified teacher"},
	{ReportStudentGroups, "Groups of a student"},
}

type Reports struct {
	db     *database.DB
	picker Picker
}

type Option func(*Reports)

// WithPicker replaces the picker used for empty name parameters.
func WithPicker(p Picker) Option {
	return func(r *Reports) {
		r.picker = p
	}
}

func New(db *database.DB, opts ...Option) *Reports {
	r := &Reports{
		db:     db,
		picker: WeightedPicker{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// resolve returns name unchanged unless it is empty. ok is false when a name
// was needed but the table has none.
func (r *Reports) resolve(tx *gorm.DB, kind Kind, name string) (resolved string, ok bool, err error) {
	if name != "" {
		return name, true, nil
	}

	resolved, err = r.picker.Pick(tx, kind)
	if err != nil {
		return "", false, fmt.Errorf("picking %s: %w", kind, database.Classify(err))
	}
	return resolved, resolved != "", nil
}

func scan[T any](ctx context.Context, r *Reports, report string, build func(tx *gorm.DB) (*gorm.DB, error)) ([]T, error) {
	q, err := build(r.db.Session(ctx))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", report, err)
	}

	rows := make([]T, 0)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", report, database.Classify(err))
	}
	return rows, nil
}

// TopStudents returns at most five students ordered by their average grade
// across all subjects.
func (r *Reports) TopStudents(ctx context.Context) ([]StudentAverage, error) {
	return scan[StudentAverage](ctx, r, ReportTopStudents, topStudentsQuery)
}

// TopStudentForSubject returns the student with the highest average in the
// subject, or nil when nobody has a grade in it.
func (r *Reports) TopStudentForSubject(ctx context.Context, subject string) (*StudentSubjectAverage, error) {
	subject, ok, err := r.resolve(r.db.Session(ctx), KindSubject, subject)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ReportTopStudentForSubject, err)
	}
	if !ok {
		return nil, nil
	}

	rows, err := scan[StudentSubjectAverage](ctx, r, ReportTopStudentForSubject, func(tx *gorm.DB) (*gorm.DB, error) {
		return topStudentForSubjectQuery(tx, subject)
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (r *Reports) GroupAveragesForSubject(ctx context.Context, subject string) ([]GroupSubjectAverage, error) {
	subject, ok, err := r.resolve(r.db.Session(ctx), KindSubject, subject)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ReportGroupAveragesForSubject, err)
	}
	if !ok {
		return []GroupSubjectAverage{}, nil
	}

	return scan[GroupSubjectAverage](ctx, r, ReportGroupAveragesForSubject, func(tx *gorm.DB) (*gorm.DB, error) {
		return groupAveragesForSubjectQuery(tx, subject)
	})
}

// OverallAverage is the mean of every grade. It is invalid (NULL) when there
// are no grades.
func (r *Reports) OverallAverage(ctx context.Context) (decimal.NullDecimal, error) {
	q, err := overallAverageQuery(r.db.Session(ctx))
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%s: %w", ReportOverallAverage, err)
	}

	var out overallAverage
	if err := q.Scan(&out).Error; err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%s: %w", ReportOverallAverage, database.Classify(err))
	}
	return out.AvgGrade, nil
}

func (r *Reports) SubjectsByTeacher(ctx context.Context, teacher string) ([]TeacherSubject, error) {
	teacher, ok, err := r.resolve(r.db.Session(ctx), KindTeacher, teacher)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ReportSubjectsByTeacher, err)
	}
	if !ok {
		return []TeacherSubject{}, nil
	}

	return scan[TeacherSubject](ctx, r, ReportSubjectsByTeacher, func(tx *gorm.DB) (*gorm.DB, error) {
		return subjectsByTeacherQuery(tx, teacher)
	})
}

// StudentsInGroup returns the names of the group's members.
func (r *Reports) StudentsInGroup(ctx context.Context, group string) ([]string, error) {
	group, ok, err := r.resolve(r.db.Session(ctx), KindGroup, group)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ReportStudentsInGroup, err)
	}
	if !ok {
		return []string{}, nil
	}

	return scan[string](ctx, r, ReportStudentsInGroup, func(tx *gorm.DB) (*gorm.DB, error) {
		return studentsInGroupQuery(tx, group)
	})
}

// GroupSubjectGrades lists every grade in the subject earned by a member of
// the group, highest first.
func (r *Reports) GroupSubjectGrades(ctx context.Context, group, subject string) ([]GroupSubjectGrade, error) {
	tx := r.db.Session(ctx)

	group, ok, err := r.resolve(tx, KindGroup, group)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ReportGroupSubjectGrades, err)
	}
	if !ok {
		return []GroupSubjectGrade{}, nil
	}
	subject, ok, err = r.resolve(tx, KindSubject, subject)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ReportGroupSubjectGrades, err)
	}
	if !ok {
		return []GroupSubjectGrade{}, nil
	}

	return scan[GroupSubjectGrade](ctx, r, ReportGroupSubjectGrades, func(tx *gorm.DB) (*gorm.DB, error) {
		return groupSubjectGradesQuery(tx, group, subject)
	})
}

func (r *Reports) TeacherSubjectAverages(ctx context.Context, teacher string) ([]TeacherSubjectAverage, error) {
	teacher, ok, err := r.resolve(r.db.Session(ctx), KindTeacher, teacher)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ReportTeacherSubjectAverages, err)
	}
	if !ok {
		return []TeacherSubjectAverage{}, nil
	}

	return scan[TeacherSubjectAverage](ctx, r, ReportTeacherSubjectAverages, func(tx *gorm.DB) (*gorm.DB, error) {
		return teacherSubjectAveragesQuery(tx, teacher)
	})
}

// SubjectsForStudent returns each subject the student has at least one grade
// in, once.
func (r *Reports) SubjectsForStudent(ctx context.Context, student string) ([]StudentSubject, error) {
	student, ok, err := r.resolve(r.db.Session(ctx), KindStudent, student)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ReportSubjectsForStudent, err)
	}
	if !ok {
		return []StudentSubject{}, nil
	}

	return scan[StudentSubject](ctx, r, ReportSubjectsForStudent, func(tx *gorm.DB) (*gorm.DB, error) {
		return subjectsForStudentQuery(tx, student)
	})
}

// StudentTeacherSubjects returns one row per grade the student has in a
// subject of the teacher.
func (r *Reports) StudentTeacherSubjects(ctx context.Context, student, teacher string) ([]StudentTeacherSubject, error) {
	tx := r.db.Session(ctx)

	student, ok, err := r.resolve(tx, KindStudent, student)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ReportStudentTeacherSubjects, err)
	}
	if !ok {
		return []StudentTeacherSubject{}, nil
	}
	teacher, ok, err = r.resolve(tx, KindTeacher, teacher)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ReportStudentTeacherSubjects, err)
	}
	if !ok {
		return []StudentTeacherSubject{}, nil
	}

	return scan[StudentTeacherSubject](ctx, r, ReportStudentTeacherSubjects, func(tx *gorm.DB) (*gorm.DB, error) {
		return studentTeacherSubjectsQuery(tx, student, teacher)
	})
}

// StudentGroups returns every student with the given name together with the
// names of their groups. Students without a group get an empty list.
func (r *Reports) StudentGroups(ctx context.Context, student string) ([]StudentGroups, error) {
	student, ok, err := r.resolve(r.db.Session(ctx), KindStudent, student)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ReportStudentGroups, err)
	}
	if !ok {
		return []StudentGroups{}, nil
	}

	return scan[StudentGroups](ctx, r, ReportStudentGroups, func(tx *gorm.DB) (*gorm.DB, error) {
		return studentGroupsQuery(tx, student)
	})
}
