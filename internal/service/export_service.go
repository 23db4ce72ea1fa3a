package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/elearn-api/internal/models"
	appErrors "github.com/noah-isme/elearn-api/pkg/errors"
	"github.com/noah-isme/elearn-api/pkg/export"
)

// ExportFormat names a supported leaderboard export format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type leaderboardRanker interface {
	ScopeTop(ctx context.Context, scope models.RankScope, scopeID string, n int) ([]models.RankedStudent, error)
	GradeLeaderboard(ctx context.Context, grade models.GradeLevel, n int) ([]models.RankedStudent, error)
}

type studentNameResolver interface {
	StudentNames(ctx context.Context, studentIDs []string) (map[string]string, error)
}

type studentFinder interface {
	Student(ctx context.Context, studentID string) (*models.Student, error)
}

type completionOverviewer interface {
	Overview(ctx context.Context, student *models.Student) (*CompletionOverview, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title, subtitle string) ([]byte, error)
}

// ExportResult is a rendered leaderboard ready to stream to the caller.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportServiceConfig tunes export behaviour.
type ExportServiceConfig struct {
	MaxRows int
}

// ExportService renders leaderboards and per-student progress reports as
// CSV or PDF. Exports are generated on demand and streamed inline; nothing
// is persisted.
type ExportService struct {
	ranking    leaderboardRanker
	profiles   studentNameResolver
	students   studentFinder
	completion completionOverviewer
	csv        csvRenderer
	pdf        pdfRenderer
	logger     *zap.Logger
	now        func() time.Time
	cfg        ExportServiceConfig
}

// ExportServiceParams groups constructor dependencies.
type ExportServiceParams struct {
	Ranking    leaderboardRanker
	Profiles   studentNameResolver
	Students   studentFinder
	Completion completionOverviewer
	CSV        csvRenderer
	PDF        pdfRenderer
	Logger     *zap.Logger
	Config     ExportServiceConfig
}

// NewExportService constructs an ExportService.
func NewExportService(params ExportServiceParams) *ExportService {
	cfg := params.Config
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 100
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	csv := params.CSV
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	pdf := params.PDF
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		ranking:    params.Ranking,
		profiles:   params.Profiles,
		students:   params.Students,
		completion: params.Completion,
		csv:        csv,
		pdf:        pdf,
		logger:     logger,
		now:        time.Now,
		cfg:        cfg,
	}
}

// ScopeLeaderboard renders the leaderboard for a school/district/county.
func (s *ExportService) ScopeLeaderboard(ctx context.Context, scope models.RankScope, scopeID string, format ExportFormat) (*ExportResult, error) {
	ranked, err := s.ranking.ScopeTop(ctx, scope, scopeID, s.cfg.MaxRows)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("%s Leaderboard", capitalize(string(scope)))
	name := fmt.Sprintf("leaderboard_%s_%s", scope, sanitizeFilename(scopeID))
	return s.render(ctx, ranked, title, name, format)
}

// GradeLeaderboard renders the leaderboard for one grade level.
func (s *ExportService) GradeLeaderboard(ctx context.Context, grade models.GradeLevel, format ExportFormat) (*ExportResult, error) {
	ranked, err := s.ranking.GradeLeaderboard(ctx, grade, s.cfg.MaxRows)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("%s Leaderboard", grade)
	name := fmt.Sprintf("leaderboard_%s", sanitizeFilename(string(grade)))
	return s.render(ctx, ranked, title, name, format)
}

// StudentProgress renders a per-subject progress report for one student.
func (s *ExportService) StudentProgress(ctx context.Context, studentID string, format ExportFormat) (*ExportResult, error) {
	student, err := s.students.Student(ctx, studentID)
	if err != nil {
		return nil, err
	}
	overview, err := s.completion.Overview(ctx, student)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(overview.Subjects))
	for _, subject := range overview.Subjects {
		rows = append(rows, map[string]string{
			"Subject": subject.Name,
			"Taken":   fmt.Sprintf("%d", subject.Taken),
			"Total":   fmt.Sprintf("%d", subject.Total),
			"Percent": fmt.Sprintf("%d", subject.Percent),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Subject", "Taken", "Total", "Percent"},
		Rows:    rows,
	}

	title := fmt.Sprintf("Progress Report: %s (%s)", student.FullName, student.Grade)
	name := fmt.Sprintf("progress_%s", sanitizeFilename(student.ID))
	return s.finish(dataset, title, name, format)
}

func (s *ExportService) render(ctx context.Context, ranked []models.RankedStudent, title, name string, format ExportFormat) (*ExportResult, error) {
	ids := make([]string, 0, len(ranked))
	for _, member := range ranked {
		ids = append(ids, member.StudentID)
	}
	names, err := s.profiles.StudentNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(ranked))
	for _, member := range ranked {
		rows = append(rows, map[string]string{
			"Rank":    fmt.Sprintf("%d", member.Rank),
			"Student": names[member.StudentID],
			"Score":   fmt.Sprintf("%.2f", member.Score),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Rank", "Student", "Score"},
		Rows:    rows,
	}
	return s.finish(dataset, title, name, format)
}

func (s *ExportService) finish(dataset export.Dataset, title, name string, format ExportFormat) (*ExportResult, error) {
	generatedAt := s.now().UTC()
	filename := fmt.Sprintf("%s_%s.%s", name, generatedAt.Format("20060102_150405"), format)
	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Filename: filename, ContentType: "text/csv", Payload: payload}, nil
	case ExportFormatPDF:
		subtitle := fmt.Sprintf("Generated %s", generatedAt.Format(time.RFC3339))
		payload, err := s.pdf.Render(dataset, title, subtitle)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Filename: filename, ContentType: "application/pdf", Payload: payload}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func capitalize(raw string) string {
	if raw == "" {
		return raw
	}
	return strings.ToUpper(raw[:1]) + raw[1:]
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(strings.ToLower(raw))
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
