// Package seed wipes the gradebook tables and fills them with random but
// referentially consistent demo data.
//
// Every stage runs in its own transaction. A failing or empty stage stops the
// run; stages committed before it stay in the database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"gradebook/database"
	"gradebook/models"
	otherUtils "gradebook/utils/other"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jinzhu/now"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrEmptyStage is returned when a stage created no rows.
var ErrEmptyStage = errors.New("seed stage created no rows")

var (
	groupNames = []string{"Computer Science", "Maths", "PythonWeb"}

	subjectPool = []string{
		"Python Core",
		"JS",
		"Python Advanced",
		"Cloud Computing",
		"Web Basics",
		"Algorithms and Data Structures",
		"Web Development: React",
		"UI/UX Design",
	}
)

const (
	minTeachers, maxTeachers                 = 3, 5
	minSubjects, maxSubjects                 = 5, 8
	minStudents, maxStudents                 = 30, 50
	minGroupsPerStudent, maxGroupsPerStudent = 1, 2
	minGradesPerStudent, maxGradesPerStudent = 5, 20
	minDaysAgo, maxDaysAgo                   = 1, 180

	gradeBatchSize = 500
)

var (
	minGrade = decimal.RequireFromString("0.10")
	maxGrade = decimal.RequireFromString("1.00")
)

// Summary counts the rows created by a run.
type Summary struct {
	Groups      int `json:"groups"`
	Teachers    int `json:"teachers"`
	Subjects    int `json:"subjects"`
	Students    int `json:"students"`
	Memberships int `json:"memberships"`
	Grades      int `json:"grades"`
}

type Seeder struct {
	db    *database.DB
	log   zerolog.Logger
	seed  uint64
	clock func() time.Time

	rng   *rand.Rand
	faker *gofakeit.Faker
}

type Option func(*Seeder)

// WithSeed makes the generated data reproducible. Zero picks a random seed.
func WithSeed(seed uint64) Option {
	return func(s *Seeder) {
		s.seed = seed
	}
}

// WithClock sets the reference time grade dates are counted back from.
func WithClock(clock func() time.Time) Option {
	return func(s *Seeder) {
		s.clock = clock
	}
}

func New(db *database.DB, log zerolog.Logger, opts ...Option) *Seeder {
	s := &Seeder{
		db:    db,
		log:   log,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.seed == 0 {
		s.seed = rand.Uint64()
	}
	s.rng = rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))
	s.faker = gofakeit.New(s.seed)

	return s
}

// Seed is the seed the run uses, useful to reproduce a random run.
func (s *Seeder) Seed() uint64 {
	return s.seed
}

func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	s.log.Info().Uint64("seed", s.seed).Msg("seeding database")

	if err := s.stageResult("reset", -1, s.reset(ctx)); err != nil {
		return summary, err
	}

	groupIds, err := s.createGroups(ctx)
	summary.Groups = len(groupIds)
	if err := s.stageResult("groups", len(groupIds), err); err != nil {
		return summary, err
	}

	teacherIds, err := s.createTeachers(ctx)
	summary.Teachers = len(teacherIds)
	if err := s.stageResult("teachers", len(teacherIds), err); err != nil {
		return summary, err
	}

	subjectIds, err := s.createSubjects(ctx, teacherIds)
	summary.Subjects = len(subjectIds)
	if err := s.stageResult("subjects", len(subjectIds), err); err != nil {
		return summary, err
	}

	studentIds, memberships, err := s.createStudents(ctx, groupIds)
	summary.Students = len(studentIds)
	summary.Memberships = memberships
	if err := s.stageResult("students", len(studentIds), err); err != nil {
		return summary, err
	}

	grades, err := s.createGrades(ctx, studentIds, subjectIds)
	summary.Grades = grades
	if err := s.stageResult("grades", grades, err); err != nil {
		return summary, err
	}

	s.log.Info().
		Int("groups", summary.Groups).
		Int("teachers", summary.Teachers).
		Int("subjects", summary.Subjects).
		Int("students", summary.Students).
		Int("grades", summary.Grades).
		Msg("database seeded")

	return summary, nil
}

// stageResult logs the outcome of a stage. created < 0 skips the empty check.
func (s *Seeder) stageResult(stage string, created int, err error) error {
	if err != nil {
		err = database.Classify(err)
		s.log.Error().Err(err).Str("stage", stage).Msg("stage failed, stopping")
		return fmt.Errorf("seed %s: %w", stage, err)
	}
	if created == 0 {
		s.log.Error().Str("stage", stage).Msg("stage created nothing, stopping")
		return fmt.Errorf("seed %s: %w", stage, ErrEmptyStage)
	}

	event := s.log.Info().Str("stage", stage)
	if created > 0 {
		event = event.Int("count", created)
	}
	event.Msg("stage done")
	return nil
}

// reset deletes every row, children first. Memberships go with their
// students through the cascade.
func (s *Seeder) reset(ctx context.Context) error {
	return s.db.Transaction(ctx, func(tx *gorm.DB) error {
		tx = tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []interface{}{
			&models.Grade{},
			&models.Subject{},
			&models.Student{},
			&models.Teacher{},
			&models.Group{},
		} {
			if err := tx.Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Seeder) createGroups(ctx context.Context) ([]int64, error) {
	groups := s.planGroups()
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(groups).Error
	})
	if err != nil {
		return nil, err
	}
	return ids(groups, func(g *models.Group) int64 { return g.Id }), nil
}

func (s *Seeder) createTeachers(ctx context.Context) ([]int64, error) {
	teachers := s.planTeachers()
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(teachers).Error
	})
	if err != nil {
		return nil, err
	}
	return ids(teachers, func(t *models.Teacher) int64 { return t.Id }), nil
}

func (s *Seeder) createSubjects(ctx context.Context, teacherIds []int64) ([]int64, error) {
	subjects := s.planSubjects(teacherIds)
	if len(subjects) == 0 {
		return nil, nil
	}

	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(subjects).Error
	})
	if err != nil {
		return nil, err
	}
	return ids(subjects, func(sub *models.Subject) int64 { return sub.Id }), nil
}

func (s *Seeder) createStudents(ctx context.Context, groupIds []int64) ([]int64, int, error) {
	students, groupsOf := s.planStudents(groupIds)

	var memberships []*models.StudentGroup
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(students).Error; err != nil {
			return err
		}

		memberships = make([]*models.StudentGroup, 0, len(students)*maxGroupsPerStudent)
		for i, student := range students {
			for _, groupId := range groupsOf[i] {
				memberships = append(memberships, &models.StudentGroup{StudentId: student.Id, GroupId: groupId})
			}
		}
		if len(memberships) == 0 {
			return nil
		}
		return tx.Create(memberships).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return ids(students, func(st *models.Student) int64 { return st.Id }), len(memberships), nil
}

func (s *Seeder) createGrades(ctx context.Context, studentIds, subjectIds []int64) (int, error) {
	grades := s.planGrades(studentIds, subjectIds)
	if len(grades) == 0 {
		return 0, nil
	}

	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.CreateInBatches(grades, gradeBatchSize).Error
	})
	if err != nil {
		return 0, err
	}
	return len(grades), nil
}

func (s *Seeder) planGroups() []*models.Group {
	groups := make([]*models.Group, 0, len(groupNames))
	for _, name := range groupNames {
		groups = append(groups, &models.Group{Name: name})
	}
	return groups
}

func (s *Seeder) planTeachers() []*models.Teacher {
	n := otherUtils.IntBetween(s.rng, minTeachers, maxTeachers)
	teachers := make([]*models.Teacher, 0, n)
	for range n {
		teachers = append(teachers, &models.Teacher{Name: s.faker.Name()})
	}
	return teachers
}

func (s *Seeder) planSubjects(teacherIds []int64) []*models.Subject {
	if len(teacherIds) == 0 {
		return nil
	}

	names := otherUtils.Sample(s.rng, subjectPool, otherUtils.IntBetween(s.rng, minSubjects, maxSubjects))
	subjects := make([]*models.Subject, 0, len(names))
	for _, name := range names {
		subjects = append(subjects, &models.Subject{
			Name:      name,
			TeacherId: teacherIds[s.rng.IntN(len(teacherIds))],
		})
	}
	return subjects
}

// planStudents returns the students and, at the same index, the ids of the
// groups each one joins.
func (s *Seeder) planStudents(groupIds []int64) ([]*models.Student, [][]int64) {
	n := otherUtils.IntBetween(s.rng, minStudents, maxStudents)
	students := make([]*models.Student, 0, n)
	groupsOf := make([][]int64, 0, n)
	for range n {
		students = append(students, &models.Student{Name: s.faker.Name()})
		groupsOf = append(groupsOf, otherUtils.Sample(s.rng, groupIds, otherUtils.IntBetween(s.rng, minGroupsPerStudent, maxGroupsPerStudent)))
	}
	return students, groupsOf
}

func (s *Seeder) planGrades(studentIds, subjectIds []int64) []*models.Grade {
	if len(subjectIds) == 0 {
		return nil
	}

	today := now.With(s.clock()).BeginningOfDay()
	grades := make([]*models.Grade, 0, len(studentIds)*maxGradesPerStudent)
	for _, studentId := range studentIds {
		for range otherUtils.IntBetween(s.rng, minGradesPerStudent, maxGradesPerStudent) {
			grades = append(grades, &models.Grade{
				Grade:     s.gradeValue(),
				DateOf:    today.AddDate(0, 0, -otherUtils.IntBetween(s.rng, minDaysAgo, maxDaysAgo)),
				StudentId: studentId,
				SubjectId: subjectIds[s.rng.IntN(len(subjectIds))],
			})
		}
	}
	return grades
}

// gradeValue is uniform in [0.10, 1.00], rounded to two decimals.
func (s *Seeder) gradeValue() float64 {
	span := maxGrade.Sub(minGrade)
	return minGrade.Add(span.Mul(decimal.NewFromFloat(s.rng.Float64()))).Round(2).InexactFloat64()
}

func ids[T any](rows []*T, id func(*T) int64) []int64 {
	out := make([]int64, 0, len(rows))
	for _, row := range rows {
		out = append(out, id(row))
	}
	return out
}
