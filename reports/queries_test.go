package reports

import (
	"strings"
	"testing"

	"gradebook/database/databasetest"

	"gorm.io/gorm"
)

func renderSQL(t *testing.T, build func(tx *gorm.DB) (*gorm.DB, error), dest interface{}) string {
	t.Helper()

	db := databasetest.DryRun(t)

	var buildErr error
	sql := db.Session(t.Context()).ToSQL(func(tx *gorm.DB) *gorm.DB {
		q, err := build(tx)
		if err != nil {
			buildErr = err
			return tx
		}
		return q.Find(dest)
	})
	if buildErr != nil {
		t.Fatalf("building query: %v", buildErr)
	}
	return sql
}

func TestQuerySQL(t *testing.T) {
	tests := []struct {
		name  string
		build func(tx *gorm.DB) (*gorm.DB, error)
		dest  interface{}
		want  []string
	}{
		{
			name:  ReportTopStudents,
			build: topStudentsQuery,
			dest:  &[]StudentAverage{},
			want: []string{
				"/* report:top-students */",
				"students.name AS name, ROUND(CAST(AVG(grades.grade) AS numeric), 2) AS avg_grade",
				`FROM "students" JOIN grades ON students.id = grades.student_id`,
				"GROUP BY students.id, students.name",
				"ORDER BY avg_grade DESC, students.name",
				"LIMIT 5",
			},
		},
		{
			name: ReportTopStudentForSubject,
			build: func(tx *gorm.DB) (*gorm.DB, error) {
				return topStudentForSubjectQuery(tx, "Python Core")
			},
			dest: &[]StudentSubjectAverage{},
			want: []string{
				"/* report:top-student */",
				"subjects.name AS subject_name",
				"JOIN grades ON students.id = grades.student_id JOIN subjects ON grades.subject_id = subjects.id",
				"WHERE subjects.name = 'Python Core'",
				"GROUP BY students.id, students.name, subjects.name",
				"LIMIT 1",
			},
		},
		{
			name: ReportGroupAveragesForSubject,
			build: func(tx *gorm.DB) (*gorm.DB, error) {
				return groupAveragesForSubjectQuery(tx, "JS")
			},
			dest: &[]GroupSubjectAverage{},
			want: []string{
				"/* report:group-averages */",
				`FROM "groups" JOIN student_groups_association ON groups.id = student_groups_association.group_id`,
				"JOIN students ON student_groups_association.student_id = students.id",
				"JOIN grades ON students.id = grades.student_id",
				"JOIN subjects ON grades.subject_id = subjects.id",
				"WHERE subjects.name = 'JS'",
				"GROUP BY groups.id, groups.name, subjects.name",
				"ORDER BY avg_grade DESC, groups.name",
			},
		},
		{
			name:  ReportOverallAverage,
			build: overallAverageQuery,
			dest:  &overallAverage{},
			want: []string{
				"/* report:average */",
				`ROUND(CAST(AVG(grades.grade) AS numeric), 2) AS avg_grade FROM "grades"`,
			},
		},
		{
			name: ReportSubjectsByTeacher,
			build: func(tx *gorm.DB) (*gorm.DB, error) {
				return subjectsByTeacherQuery(tx, "Ada Lovelace")
			},
			dest: &[]TeacherSubject{},
			want: []string{
				"teachers.name AS teacher_name, subjects.name AS subject_name",
				`FROM "teachers" JOIN subjects ON teachers.id = subjects.teacher_id`,
				"WHERE teachers.name = 'Ada Lovelace'",
				"ORDER BY subjects.name",
			},
		},
		{
			name: ReportStudentsInGroup,
			build: func(tx *gorm.DB) (*gorm.DB, error) {
				return studentsInGroupQuery(tx, "Maths")
			},
			dest: &[]string{},
			want: []string{
				`FROM "students" JOIN student_groups_association ON students.id = student_groups_association.student_id`,
				"JOIN groups ON student_groups_association.group_id = groups.id",
				"WHERE groups.name = 'Maths'",
				"ORDER BY students.name",
			},
		},
		{
			name: ReportGroupSubjectGrades,
			build: func(tx *gorm.DB) (*gorm.DB, error) {
				return groupSubjectGradesQuery(tx, "Maths", "JS")
			},
			dest: &[]GroupSubjectGrade{},
			want: []string{
				"grades.grade AS grade, grades.date_of AS date",
				`FROM "grades" JOIN students ON grades.student_id = students.id`,
				"JOIN subjects ON grades.subject_id = subjects.id",
				"WHERE groups.name = 'Maths' AND subjects.name = 'JS'",
				"ORDER BY grades.grade DESC, students.name",
			},
		},
		{
			name: ReportTeacherSubjectAverages,
			build: func(tx *gorm.DB) (*gorm.DB, error) {
				return teacherSubjectAveragesQuery(tx, "Ada Lovelace")
			},
			dest: &[]TeacherSubjectAverage{},
			want: []string{
				"subjects.name AS subject, ROUND(CAST(AVG(grades.grade) AS numeric), 2) AS avg_grade",
				"JOIN grades ON subjects.id = grades.subject_id",
				"GROUP BY teachers.id, teachers.name, subjects.name",
			},
		},
		{
			name: ReportSubjectsForStudent,
			build: func(tx *gorm.DB) (*gorm.DB, error) {
				return subjectsForStudentQuery(tx, "Alice")
			},
			dest: &[]StudentSubject{},
			want: []string{
				"SELECT DISTINCT students.name AS student_name",
				"WHERE students.name = 'Alice'",
				"ORDER BY student_name, subject",
			},
		},
		{
			name: ReportStudentTeacherSubjects,
			build: func(tx *gorm.DB) (*gorm.DB, error) {
				return studentTeacherSubjectsQuery(tx, "Alice", "Ada Lovelace")
			},
			dest: &[]StudentTeacherSubject{},
			want: []string{
				"SELECT students.name AS student, teachers.name AS teacher",
				"JOIN teachers ON subjects.teacher_id = teachers.id",
				"WHERE students.name = 'Alice' AND teachers.name = 'Ada Lovelace'",
				"ORDER BY student, subject, grades.id",
			},
		},
		{
			name: ReportStudentGroups,
			build: func(tx *gorm.DB) (*gorm.DB, error) {
				return studentGroupsQuery(tx, "Alice")
			},
			dest: &[]StudentGroups{},
			want: []string{
				"array_remove(array_agg(groups.name ORDER BY groups.name), NULL) AS groups",
				"LEFT JOIN student_groups_association ON students.id = student_groups_association.student_id",
				"LEFT JOIN groups ON student_groups_association.group_id = groups.id",
				"GROUP BY students.id, students.name",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := renderSQL(t, tt.build, tt.dest)
			for _, want := range tt.want {
				if !strings.Contains(sql, want) {
					t.Errorf("expected %q in\n%s", want, sql)
				}
			}
		})
	}
}

func TestCatalogCoversEveryReport(t *testing.T) {
	seen := map[string]bool{}
	for _, entry := range Catalog {
		if entry.Title == "" {
			t.Errorf("report %q has no title", entry.Name)
		}
		if seen[entry.Name] {
			t.Errorf("report %q listed twice", entry.Name)
		}
		seen[entry.Name] = true
	}

	if len(Catalog) != 11 {
		t.Errorf("catalog has %d entries, want 11", len(Catalog))
	}
}

func TestWeightQuerySQL(t *testing.T) {
	tests := []struct {
		kind Kind
		want []string
	}{
		{KindSubject, []string{`FROM "subjects" LEFT JOIN grades ON subjects.id = grades.subject_id`, "COUNT(grades.id) + 1 AS weight"}},
		{KindTeacher, []string{`FROM "teachers" LEFT JOIN subjects ON teachers.id = subjects.teacher_id`, "COUNT(subjects.id) + 1 AS weight"}},
		{KindGroup, []string{`FROM "groups" LEFT JOIN student_groups_association ON groups.id = student_groups_association.group_id`}},
		{KindStudent, []string{`FROM "students" LEFT JOIN grades ON students.id = grades.student_id`, "GROUP BY students.id, students.name"}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			sql := renderSQL(t, func(tx *gorm.DB) (*gorm.DB, error) {
				return weightQuery(tx, tt.kind)
			}, &[]weightedName{})

			for _, want := range tt.want {
				if !strings.Contains(sql, want) {
					t.Errorf("expected %q in\n%s", want, sql)
				}
			}
		})
	}

	db := databasetest.DryRun(t)
	if _, err := weightQuery(db.Session(t.Context()), Kind(99)); err == nil {
		t.Error("expected an error for an unknown kind")
	}
}
