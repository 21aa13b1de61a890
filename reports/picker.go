package reports

import (
	"fmt"

	"gradebook/database"
	"gradebook/models"

	"github.com/mroth/weightedrand/v2"
	"gorm.io/gorm"
)

// Kind is the entity a missing report parameter is resolved against.
type Kind int

const (
	KindSubject Kind = iota
	KindTeacher
	KindGroup
	KindStudent
)

func (k Kind) String() string {
	switch k {
	case KindSubject:
		return "subject"
	case KindTeacher:
		return "teacher"
	case KindGroup:
		return "group"
	case KindStudent:
		return "student"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Picker chooses an existing name of the given kind. An empty table yields ""
// and no error.
type Picker interface {
	Pick(tx *gorm.DB, kind Kind) (string, error)
}

// PickerFunc adapts a plain function to Picker.
type PickerFunc func(tx *gorm.DB, kind Kind) (string, error)

func (f PickerFunc) Pick(tx *gorm.DB, kind Kind) (string, error) {
	return f(tx, kind)
}

type weightedName struct {
	Name   string
	Weight int64
}

// WeightedPicker favours names that carry more data, so a randomly chosen
// parameter rarely produces an empty report. Every name keeps a weight of at
// least one.
type WeightedPicker struct{}

func (WeightedPicker) Pick(tx *gorm.DB, kind Kind) (string, error) {
	q, err := weightQuery(tx, kind)
	if err != nil {
		return "", err
	}

	var rows []weightedName
	if err := q.Scan(&rows).Error; err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}

	choices := make([]weightedrand.Choice[string, int64], 0, len(rows))
	for _, row := range rows {
		choices = append(choices, weightedrand.NewChoice(row.Name, row.Weight))
	}

	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return "", err
	}
	return chooser.Pick(), nil
}

func weightQuery(tx *gorm.DB, kind Kind) (*gorm.DB, error) {
	var (
		from, to             interface{}
		table, counted, fkey string
	)

	switch kind {
	case KindSubject:
		from, to, table, counted, fkey = &models.Subject{}, &models.Grade{}, "subjects", "grades.id", "SubjectId"
	case KindTeacher:
		from, to, table, counted, fkey = &models.Teacher{}, &models.Subject{}, "teachers", "subjects.id", "TeacherId"
	case KindGroup:
		from, to, table, counted, fkey = &models.Group{}, &models.StudentGroup{}, "groups", "student_groups_association.student_id", "GroupId"
	case KindStudent:
		from, to, table, counted, fkey = &models.Student{}, &models.Grade{}, "students", "grades.id", "StudentId"
	default:
		return nil, fmt.Errorf("unknown kind %s", kind)
	}

	tx, err := database.LeftJoin(tx, from, to, "Id", fkey, "")
	if err != nil {
		return nil, err
	}

	return tx.Clauses(database.ReportComment("pick-"+kind.String())).
		Select(table + ".name AS name, COUNT(" + counted + ") + 1 AS weight").
		Group(table + ".id, " + table + ".name").
		Order(table + ".id"), nil
}
