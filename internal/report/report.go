// Package report renders the study report as markdown and converts it to PDF.
package report

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/at-ishikawa/leitner/internal/flashcard"
	"github.com/at-ishikawa/leitner/internal/statistics"
)

const embeddedTemplateName = "study-report.md.go.tmpl"

//go:embed templates/study-report.md.go.tmpl
var fallbackReportTemplate string

type BoxSummary struct {
	Box          flashcard.Box
	Count        int
	IntervalDays int
}

type Data struct {
	GeneratedAt time.Time
	Dashboard   statistics.Dashboard
	Boxes       []BoxSummary
	Periods     statistics.StatisticsResult
}

func NewData(dashboard statistics.Dashboard, periods statistics.StatisticsResult, generatedAt time.Time) Data {
	boxes := make([]BoxSummary, 0, len(flashcard.Boxes))
	for _, box := range flashcard.Boxes {
		boxes = append(boxes, BoxSummary{
			Box:          box,
			Count:        dashboard.BoxCounts[box],
			IntervalDays: box.IntervalDays(),
		})
	}
	return Data{
		GeneratedAt: generatedAt,
		Dashboard:   dashboard,
		Boxes:       boxes,
		Periods:     periods,
	}
}

// ParseTemplate parses the template at templatePath, or the embedded one when the path is empty or unusable.
func ParseTemplate(templatePath string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"join":     strings.Join,
		"duration": statistics.FormatDuration,
		"date": func(t time.Time) string {
			return t.Local().Format("2006-01-02 15:04")
		},
	}

	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(templatePath)).
				Funcs(funcMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a templatePath",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := template.New(embeddedTemplateName).
		Funcs(funcMap).
		Parse(fallbackReportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}

func Write(w io.Writer, templatePath string, data Data) error {
	tmpl, err := ParseTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseTemplate(%s) > %w", templatePath, err)
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}

// WriteFile writes the report as study-report-YYYY-MM-DD.md under directory and returns its path.
func WriteFile(directory, templatePath string, data Data) (string, error) {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", directory, err)
	}
	path := filepath.Join(directory, fmt.Sprintf("study-report-%s.md", data.GeneratedAt.Format("2006-01-02")))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := Write(file, templatePath, data); err != nil {
		return "", err
	}
	return path, nil
}
