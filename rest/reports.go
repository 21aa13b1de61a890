// Package rest serves the reports as JSON over HTTP.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"gradebook/database"
	"gradebook/reports"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ReportSource is implemented by *reports.Reports.
type ReportSource interface {
	TopStudents(ctx context.Context) ([]reports.StudentAverage, error)
	TopStudentForSubject(ctx context.Context, subject string) (*reports.StudentSubjectAverage, error)
	GroupAveragesForSubject(ctx context.Context, subject string) ([]reports.GroupSubjectAverage, error)
	OverallAverage(ctx context.Context) (decimal.NullDecimal, error)
	SubjectsByTeacher(ctx context.Context, teacher string) ([]reports.TeacherSubject, error)
	StudentsInGroup(ctx context.Context, group string) ([]string, error)
	GroupSubjectGrades(ctx context.Context, group, subject string) ([]reports.GroupSubjectGrade, error)
	TeacherSubjectAverages(ctx context.Context, teacher string) ([]reports.TeacherSubjectAverage, error)
	SubjectsForStudent(ctx context.Context, student string) ([]reports.StudentSubject, error)
	StudentTeacherSubjects(ctx context.Context, student, teacher string) ([]reports.StudentTeacherSubject, error)
	StudentGroups(ctx context.Context, student string) ([]reports.StudentGroups, error)
}

type ReportHandler struct {
	source ReportSource
	log    zerolog.Logger
}

func NewReportHandler(source ReportSource, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{source: source, log: log}
}

type averageResponse struct {
	AvgGrade decimal.NullDecimal `json:"avg_grade"`
}

// Register mounts one GET route per report under /reports.
func (h *ReportHandler) Register(r *mux.Router) {
	s := r.PathPrefix("/reports").Subrouter()

	s.HandleFunc("/"+reports.ReportTopStudents, func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.source.TopStudents(r.Context())
		h.respond(w, r, rows, err)
	}).Methods(http.MethodGet)

	s.HandleFunc("/"+reports.ReportTopStudentForSubject, func(w http.ResponseWriter, r *http.Request) {
		row, err := h.source.TopStudentForSubject(r.Context(), query(r, "subject"))
		h.respond(w, r, row, err)
	}).Methods(http.MethodGet)

	s.HandleFunc("/"+reports.ReportGroupAveragesForSubject, func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.source.GroupAveragesForSubject(r.Context(), query(r, "subject"))
		h.respond(w, r, rows, err)
	}).Methods(http.MethodGet)

	s.HandleFunc("/"+reports.ReportOverallAverage, func(w http.ResponseWriter, r *http.Request) {
		avg, err := h.source.OverallAverage(r.Context())
		h.respond(w, r, averageResponse{AvgGrade: avg}, err)
	}).Methods(http.MethodGet)

	s.HandleFunc("/"+reports.ReportSubjectsByTeacher, func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.source.SubjectsByTeacher(r.Context(), query(r, "teacher"))
		h.respond(w, r, rows, err)
	}).Methods(http.MethodGet)

	s.HandleFunc("/"+reports.ReportStudentsInGroup, func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.source.StudentsInGroup(r.Context(), query(r, "group"))
		h.respond(w, r, rows, err)
	}).Methods(http.MethodGet)

	s.HandleFunc("/"+reports.ReportGroupSubjectGrades, func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.source.GroupSubjectGrades(r.Context(), query(r, "group"), query(r, "subject"))
		h.respond(w, r, rows, err)
	}).Methods(http.MethodGet)

	s.HandleFunc("/"+reports.ReportTeacherSubjectAverages, func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.source.TeacherSubjectAverages(r.Context(), query(r, "teacher"))
		h.respond(w, r, rows, err)
	}).Methods(http.MethodGet)

	s.HandleFunc("/"+reports.ReportSubjectsForStudent, func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.source.SubjectsForStudent(r.Context(), query(r, "student"))
		h.respond(w, r, rows, err)
	}).Methods(http.MethodGet)

	s.HandleFunc("/"+reports.ReportStudentTeacherSubjects, func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.source.StudentTeacherSubjects(r.Context(), query(r, "student"), query(r, "teacher"))
		h.respond(w, r, rows, err)
	}).Methods(http.MethodGet)

	s.HandleFunc("/"+reports.ReportStudentGroups, func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.source.StudentGroups(r.Context(), query(r, "student"))
		h.respond(w, r, rows, err)
	}).Methods(http.MethodGet)
}

func query(r *http.Request, key string) string {
	return r.URL.Query().Get(key)
}

func (h *ReportHandler) respond(w http.ResponseWriter, r *http.Request, body interface{}, err error) {
	if err != nil {
		status, msg := errorStatus(err)
		h.log.Error().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("report failed")
		writeJSON(w, status, errorResponse{Error: msg}, h.log)
		return
	}
	writeJSON(w, http.StatusOK, body, h.log)
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorStatus(err error) (int, string) {
	if errors.Is(err, database.ErrConnection) {
		return http.StatusServiceUnavailable, "database unavailable"
	}
	return http.StatusInternalServerError, "internal server error"
}

func writeJSON(w http.ResponseWriter, status int, body interface{}, log zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
