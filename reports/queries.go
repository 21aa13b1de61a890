package reports

import (
	"gradebook/database"
	"gradebook/models"

	"gorm.io/gorm"
)

// Averages are rounded on the server with numeric semantics so two equal
// averages never print differently.
const avgGrade = "ROUND(CAST(AVG(grades.grade) AS numeric), 2)"

type joinStep struct {
	from, to           interface{}
	fromField, toField string
}

func joinAll(tx *gorm.DB, steps ...joinStep) (*gorm.DB, error) {
	var err error
	for _, s := range steps {
		tx, err = database.Join(tx, s.from, s.to, s.fromField, s.toField, "")
		if err != nil {
			return nil, err
		}
	}
	return tx, nil
}

var (
	studentToGrade      = joinStep{&models.Student{}, &models.Grade{}, "Id", "StudentId"}
	gradeToStudent      = joinStep{&models.Grade{}, &models.Student{}, "StudentId", "Id"}
	gradeToSubject      = joinStep{&models.Grade{}, &models.Subject{}, "SubjectId", "Id"}
	subjectToGrade      = joinStep{&models.Subject{}, &models.Grade{}, "Id", "SubjectId"}
	subjectToTeacher    = joinStep{&models.Subject{}, &models.Teacher{}, "TeacherId", "Id"}
	teacherToSubject    = joinStep{&models.Teacher{}, &models.Subject{}, "Id", "TeacherId"}
	groupToMembership   = joinStep{&models.Group{}, &models.StudentGroup{}, "Id", "GroupId"}
	membershipToGroup   = joinStep{&models.StudentGroup{}, &models.Group{}, "GroupId", "Id"}
	membershipToStudent = joinStep{&models.StudentGroup{}, &models.Student{}, "StudentId", "Id"}
	studentToMembership = joinStep{&models.Student{}, &models.StudentGroup{}, "Id", "StudentId"}
)

func topStudentsQuery(tx *gorm.DB) (*gorm.DB, error) {
	tx, err := joinAll(tx, studentToGrade)
	if err != nil {
		return nil, err
	}

	return tx.Clauses(database.ReportComment(ReportTopStudents)).
		Select("students.name AS name, " + avgGrade + " AS avg_grade").
		Group("students.id, students.name").
		Order("avg_grade DESC, students.name").
		Limit(5), nil
}

func topStudentForSubjectQuery(tx *gorm.DB, subject string) (*gorm.DB, error) {
	tx, err := joinAll(tx, studentToGrade, gradeToSubject)
	if err != nil {
		return nil, err
	}

	return tx.Clauses(database.ReportComment(ReportTopStudentForSubject)).
		Select("students.name AS name, subjects.name AS subject_name, "+avgGrade+" AS avg_grade").
		Where("subjects.name = ?", subject).
		Group("students.id, students.name, subjects.name").
		Order("avg_grade DESC, students.name").
		Limit(1), nil
}

func groupAveragesForSubjectQuery(tx *gorm.DB, subject string) (*gorm.DB, error) {
	tx, err := joinAll(tx, groupToMembership, membershipToStudent, studentToGrade, gradeToSubject)
	if err != nil {
		return nil, err
	}

	return tx.Clauses(database.ReportComment(ReportGroupAveragesForSubject)).
		Select("groups.name AS group_name, subjects.name AS subject_name, "+avgGrade+" AS avg_grade").
		Where("subjects.name = ?", subject).
		Group("groups.id, groups.name, subjects.name").
		Order("avg_grade DESC, groups.name"), nil
}

func overallAverageQuery(tx *gorm.DB) (*gorm.DB, error) {
	return tx.Clauses(database.ReportComment(ReportOverallAverage)).
		Model(&models.Grade{}).
		Select(avgGrade + " AS avg_grade"), nil
}

func subjectsByTeacherQuery(tx *gorm.DB, teacher string) (*gorm.DB, error) {
	tx, err := joinAll(tx, teacherToSubject)
	if err != nil {
		return nil, err
	}

	return tx.Clauses(database.ReportComment(ReportSubjectsByTeacher)).
		Select("teachers.name AS teacher_name, subjects.name AS subject_name").
		Where("teachers.name = ?", teacher).
		Order("subjects.name"), nil
}

func studentsInGroupQuery(tx *gorm.DB, group string) (*gorm.DB, error) {
	tx, err := joinAll(tx, studentToMembership, membershipToGroup)
	if err != nil {
		return nil, err
	}

	return tx.Clauses(database.ReportComment(ReportStudentsInGroup)).
		Select("students.name").
		Where("groups.name = ?", group).
		Order("students.name"), nil
}

func groupSubjectGradesQuery(tx *gorm.DB, group, subject string) (*gorm.DB, error) {
	tx, err := joinAll(tx, gradeToStudent, studentToMembership, membershipToGroup, gradeToSubject)
	if err != nil {
		return nil, err
	}

	return tx.Clauses(database.ReportComment(ReportGroupSubjectGrades)).
		Select("students.name AS student_name, subjects.name AS subject_name, groups.name AS group_name, grades.grade AS grade, grades.date_of AS date").
		Where("groups.name = ? AND subjects.name = ?", group, subject).
		Order("grades.grade DESC, students.name"), nil
}

func teacherSubjectAveragesQuery(tx *gorm.DB, teacher string) (*gorm.DB, error) {
	tx, err := joinAll(tx, teacherToSubject, subjectToGrade)
	if err != nil {
		return nil, err
	}

	return tx.Clauses(database.ReportComment(ReportTeacherSubjectAverages)).
		Select("teachers.name AS teacher_name, subjects.name AS subject, "+avgGrade+" AS avg_grade").
		Where("teachers.name = ?", teacher).
		Group("teachers.id, teachers.name, subjects.name").
		Order("subjects.name"), nil
}

func subjectsForStudentQuery(tx *gorm.DB, student string) (*gorm.DB, error) {
	tx, err := joinAll(tx, studentToGrade, gradeToSubject)
	if err != nil {
		return nil, err
	}

	return tx.Clauses(database.ReportComment(ReportSubjectsForStudent)).
		Distinct("students.name AS student_name", "subjects.name AS subject").
		Where("students.name = ?", student).
		Order("student_name, subject"), nil
}

func studentTeacherSubjectsQuery(tx *gorm.DB, student, teacher string) (*gorm.DB, error) {
	tx, err := joinAll(tx, studentToGrade, gradeToSubject, subjectToTeacher)
	if err != nil {
		return nil, err
	}

	return tx.Clauses(database.ReportComment(ReportStudentTeacherSubjects)).
		Select("students.name AS student, teachers.name AS teacher, subjects.name AS subject").
		Where("students.name = ? AND teachers.name = ?", student, teacher).
		Order("student, subject, grades.id"), nil
}

func studentGroupsQuery(tx *gorm.DB, student string) (*gorm.DB, error) {
	tx, err := database.LeftJoin(tx, &models.Student{}, &models.StudentGroup{}, "Id", "StudentId", "")
	if err != nil {
		return nil, err
	}
	tx, err = database.LeftJoin(tx, &models.StudentGroup{}, &models.Group{}, "GroupId", "Id", "")
	if err != nil {
		return nil, err
	}

	return tx.Clauses(database.ReportComment(ReportStudentGroups)).
		Select("students.name AS name, array_remove(array_agg(groups.name ORDER BY groups.name), NULL) AS groups").
		Where("students.name = ?", student).
		Group("students.id, students.name").
		Order("students.id"), nil
}
