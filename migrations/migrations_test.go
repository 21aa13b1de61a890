package migrations

import (
	"errors"
	"path/filepath"
	"testing"

	"gradebook/database/databasetest"
	"gradebook/models"
)

func TestResolveDir(t *testing.T) {
	orig := executable
	t.Cleanup(func() { executable = orig })
	executable = func() (string, error) {
		return filepath.FromSlash("/opt/gradebook/bin/gradebook"), nil
	}

	got, err := resolveDir("../migrations")
	if err != nil {
		t.Fatalf("resolveDir() failed: %v", err)
	}
	if want := filepath.FromSlash("/opt/gradebook/migrations"); got != want {
		t.Errorf("resolveDir() = %q, want %q", got, want)
	}

	abs := filepath.FromSlash("/srv/migrations")
	if got, _ := resolveDir(abs); got != abs {
		t.Errorf("absolute dir changed: %q", got)
	}

	executable = func() (string, error) { return "", errors.New("no executable") }
	if _, err := resolveDir("migrations"); err == nil {
		t.Error("expected executable lookup failure to propagate")
	}
}

func TestSchemaMigrationsDownAndUp(t *testing.T) {
	db := databasetest.Open(t)
	tx := db.Session(t.Context())

	if err := downAddForeignKeyIndexes(tx); err != nil {
		t.Fatalf("downAddForeignKeyIndexes() failed: %v", err)
	}
	if err := downCreateSchema(tx); err != nil {
		t.Fatalf("downCreateSchema() failed: %v", err)
	}
	for _, model := range models.All() {
		if tx.Migrator().HasTable(model) {
			t.Fatalf("table for %T still present after down", model)
		}
	}

	if err := upCreateSchema(tx); err != nil {
		t.Fatalf("upCreateSchema() failed: %v", err)
	}
	if err := upAddForeignKeyIndexes(tx); err != nil {
		t.Fatalf("upAddForeignKeyIndexes() failed: %v", err)
	}
	if !tx.Migrator().HasTable("student_groups_association") {
		t.Error("association table missing")
	}
	for _, idx := range foreignKeyIndexes {
		if !tx.Migrator().HasIndex(idx.table, idx.name) {
			t.Errorf("index %s missing", idx.name)
		}
	}
}

// Association rows follow their student and their group; grades do not
// cascade and block the deletion instead.
func TestForeignKeyRules(t *testing.T) {
	db := databasetest.Open(t)
	tx := db.Session(t.Context())

	group := &models.Group{Name: "Maths"}
	teacher := &models.Teacher{Name: "Ada Lovelace"}
	if err := tx.Create(group).Error; err != nil {
		t.Fatal(err)
	}
	if err := tx.Create(teacher).Error; err != nil {
		t.Fatal(err)
	}
	subject := &models.Subject{Name: "JS", TeacherId: teacher.Id}
	if err := tx.Create(subject).Error; err != nil {
		t.Fatal(err)
	}

	withGrades := &models.Student{Name: "Grace Hopper"}
	withoutGrades := &models.Student{Name: "Alan Turing"}
	if err := tx.Create([]*models.Student{withGrades, withoutGrades}).Error; err != nil {
		t.Fatal(err)
	}
	memberships := []*models.StudentGroup{
		{StudentId: withGrades.Id, GroupId: group.Id},
		{StudentId: withoutGrades.Id, GroupId: group.Id},
	}
	if err := tx.Create(memberships).Error; err != nil {
		t.Fatal(err)
	}
	if err := tx.Create(&models.Grade{Grade: 0.5, StudentId: withGrades.Id, SubjectId: subject.Id}).Error; err != nil {
		t.Fatal(err)
	}

	if err := tx.Delete(&models.Student{}, withoutGrades.Id).Error; err != nil {
		t.Fatalf("deleting a student without grades failed: %v", err)
	}
	var count int64
	tx.Model(&models.StudentGroup{}).Where("student_id = ?", withoutGrades.Id).Count(&count)
	if count != 0 {
		t.Errorf("expected association rows to cascade, %d left", count)
	}

	if err := tx.Delete(&models.Student{}, withGrades.Id).Error; err == nil {
		t.Error("expected deleting a student with grades to be rejected")
	}

	tx.Model(&models.StudentGroup{}).Where("group_id = ?", group.Id).Count(&count)
	if count != 1 {
		t.Fatalf("expected one membership left in the group, got %d", count)
	}
	if err := tx.Delete(&models.Group{}, group.Id).Error; err != nil {
		t.Fatalf("deleting a group with members failed: %v", err)
	}
	tx.Model(&models.StudentGroup{}).Where("group_id = ?", group.Id).Count(&count)
	if count != 0 {
		t.Errorf("expected group memberships to cascade, %d left", count)
	}
	tx.Model(&models.Student{}).Where("id = ?", withGrades.Id).Count(&count)
	if count != 1 {
		t.Error("expected the student to outlive the group")
	}

	if err := tx.Create(&models.Student{Name: ""}).Error; err == nil {
		t.Error("expected an empty student name to be rejected")
	}

	grade := &models.Grade{}
	if err := tx.First(grade, "student_id = ?", withGrades.Id).Error; err != nil {
		t.Fatal(err)
	}
	if grade.DateOf.IsZero() {
		t.Error("expected date_of to default to the insertion time")
	}
}

func TestRunAppliesMigrations(t *testing.T) {
	db := databasetest.Open(t)
	tx := db.Session(t.Context())

	if err := downAddForeignKeyIndexes(tx); err != nil {
		t.Fatal(err)
	}
	if err := downCreateSchema(tx); err != nil {
		t.Fatal(err)
	}

	// forget previous runs so every migration is applied again
	var versionTables []string
	err := tx.Raw("SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_name LIKE 'goose%'").
		Scan(&versionTables).Error
	if err != nil {
		t.Fatal(err)
	}
	for _, table := range versionTables {
		if err := tx.Migrator().DropTable(table); err != nil {
			t.Fatalf("dropping %s: %v", table, err)
		}
	}

	for run := range 2 {
		if err := Run(t.Context(), db, t.TempDir()); err != nil {
			t.Fatalf("run %d: Run() failed: %v", run, err)
		}
	}

	for _, model := range models.All() {
		if !tx.Migrator().HasTable(model) {
			t.Errorf("table for %T missing", model)
		}
	}
	for _, idx := range foreignKeyIndexes {
		if !tx.Migrator().HasIndex(idx.table, idx.name) {
			t.Errorf("index %s missing", idx.name)
		}
	}
}
