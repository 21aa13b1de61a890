package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"gradebook/reports"
	"gradebook/rest"
	otherUtils "gradebook/utils/other"

	"github.com/spf13/cobra"
)

// reportParams are the names the reports filter on. Empty ones are picked at
// random per report.
type reportParams struct {
	Subject string
	Teacher string
	Group   string
	Student string
}

func newReportCommand(a *app) *cobra.Command {
	var params reportParams

	names := make([]string, 0, len(reports.Catalog))
	for _, entry := range reports.Catalog {
		names = append(names, entry.Name)
	}

	cmd := &cobra.Command{
		Use:       "report [name]",
		Short:     "Print every report, or only the named one",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer a.closeDatabase(db)

			return printReports(cmd.Context(), cmd.OutOrStdout(), reports.New(db), params, args...)
		},
	}

	cmd.Flags().StringVar(&params.Subject, "subject", "", "subject name (random when empty)")
	cmd.Flags().StringVar(&params.Teacher, "teacher", "", "teacher name (random when empty)")
	cmd.Flags().StringVar(&params.Group, "group", "", "group name (random when empty)")
	cmd.Flags().StringVar(&params.Student, "student", "", "student name (random when empty)")
	return cmd
}

// printReports writes the numbered reports of the catalog. With only set,
// the other reports are skipped but keep their numbers.
func printReports(ctx context.Context, w io.Writer, source rest.ReportSource, params reportParams, only ...string) error {
	for i, entry := range reports.Catalog {
		if len(only) > 0 && !slices.Contains(only, entry.Name) {
			continue
		}

		fmt.Fprintf(w, "\n%d. %s\n", i+1, entry.Title)
		if err := printReport(ctx, w, source, entry.Name, params); err != nil {
			return err
		}
	}
	return nil
}

func printReport(ctx context.Context, w io.Writer, source rest.ReportSource, name string, p reportParams) error {
	switch name {
	case reports.ReportTopStudents:
		rows, err := source.TopStudents(ctx)
		if err != nil {
			return err
		}
		for _, row := range rows {
			fmt.Fprintf(w, "   %s: %s\n", row.Name, row.AvgGrade.StringFixed(2))
		}

	case reports.ReportTopStudentForSubject:
		row, err := source.TopStudentForSubject(ctx, p.Subject)
		if err != nil {
			return err
		}
		if row != nil {
			fmt.Fprintf(w, "   %s: %s (%s)\n", row.Name, row.AvgGrade.StringFixed(2), row.SubjectName)
		}

	case reports.ReportGroupAveragesForSubject:
		rows, err := source.GroupAveragesForSubject(ctx, p.Subject)
		if err != nil {
			return err
		}
		for _, row := range rows {
			fmt.Fprintf(w, "   %s: %s (%s)\n", row.GroupName, row.AvgGrade.StringFixed(2), row.SubjectName)
		}

	case reports.ReportOverallAverage:
		avg, err := source.OverallAverage(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "   %s\n", otherUtils.IIf(avg.Valid, avg.Decimal.StringFixed(2), "no grades"))

	case reports.ReportSubjectsByTeacher:
		rows, err := source.SubjectsByTeacher(ctx, p.Teacher)
		if err != nil {
			return err
		}
		for _, row := range rows {
			fmt.Fprintf(w, "   %s (%s)\n", row.SubjectName, row.TeacherName)
		}

	case reports.ReportStudentsInGroup:
		rows, err := source.StudentsInGroup(ctx, p.Group)
		if err != nil {
			return err
		}
		for _, student := range rows {
			fmt.Fprintf(w, "   %s\n", student)
		}

	case reports.ReportGroupSubjectGrades:
		rows, err := source.GroupSubjectGrades(ctx, p.Group, p.Subject)
		if err != nil {
			return err
		}
		for _, row := range rows {
			fmt.Fprintf(w, "   %s - %s - %s - %.2f - %s\n",
				row.GroupName, row.SubjectName, row.StudentName, row.Grade, row.Date.Format(time.DateTime))
		}

	case reports.ReportTeacherSubjectAverages:
		rows, err := source.TeacherSubjectAverages(ctx, p.Teacher)
		if err != nil {
			return err
		}
		for _, row := range rows {
			fmt.Fprintf(w, "   %s - %s - %s\n", row.TeacherName, row.Subject, row.AvgGrade.StringFixed(2))
		}

	case reports.ReportSubjectsForStudent:
		rows, err := source.SubjectsForStudent(ctx, p.Student)
		if err != nil {
			return err
		}
		for _, row := range rows {
			fmt.Fprintf(w, "   %s - %s\n", row.StudentName, row.Subject)
		}

	case reports.ReportStudentTeacherSubjects:
		rows, err := source.StudentTeacherSubjects(ctx, p.Student, p.Teacher)
		if err != nil {
			return err
		}
		for _, row := range rows {
			fmt.Fprintf(w, "   %s - %s - %s\n", row.Teacher, row.Student, row.Subject)
		}

	case reports.ReportStudentGroups:
		rows, err := source.StudentGroups(ctx, p.Student)
		if err != nil {
			return err
		}
		for _, row := range rows {
			fmt.Fprintf(w, "   %s: %s\n", row.Name, strings.Join(row.Groups, ", "))
		}

	default:
		return fmt.Errorf("unknown report %q", name)
	}
	return nil
}
