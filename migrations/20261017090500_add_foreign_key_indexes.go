package migrations

import (
	"github.com/ottomillrath/goose/v2"
	"gorm.io/gorm"
)

func init() {
	goose.AddMigration(service, upAddForeignKeyIndexes, downAddForeignKeyIndexes)
}

// postgres does not index the referencing side of a foreign key; every report
// joins through these columns.
var foreignKeyIndexes = []struct {
	name, table, column string
}{
	{"idx_subjects_teacher_id", "subjects", "teacher_id"},
	{"idx_grades_student_id", "grades", "student_id"},
	{"idx_grades_subject_id", "grades", "subject_id"},
	{"idx_student_groups_association_group_id", "student_groups_association", "group_id"},
}

func upAddForeignKeyIndexes(tx *gorm.DB) error {
	for _, idx := range foreignKeyIndexes {
		r := tx.Exec("CREATE INDEX IF NOT EXISTS " + idx.name + " ON " + idx.table + " (" + idx.column + ")")
		if r.Error != nil {
			return r.Error
		}
	}
	return nil
}

func downAddForeignKeyIndexes(tx *gorm.DB) error {
	for _, idx := range foreignKeyIndexes {
		r := tx.Exec("DROP INDEX IF EXISTS " + idx.name)
		if r.Error != nil {
			return r.Error
		}
	}
	return nil
}
