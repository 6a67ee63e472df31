package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"biomimic/metrics"
	"biomimic/models"
	"biomimic/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportService erzeugt Excel-Auszüge der Datenbank und lädt sie optional ins S3.
type ExportService struct {
	DB       *gorm.DB
	Logger   *zap.Logger
	Uploader storage.Uploader
	Target   storage.S3Target
	now      func() time.Time
}

// NewExportService erstellt eine neue Instanz des ExportService. uploader darf nil sein,
// dann steht nur Workbook zur Verfügung.
func NewExportService(db *gorm.DB, logger *zap.Logger, uploader storage.Uploader, target storage.S3Target) *ExportService {
	return &ExportService{DB: db, Logger: logger, Uploader: uploader, Target: target, now: time.Now}
}

// Workbook baut eine xlsx-Datei mit den Blättern Problems, Solutions und Inspirations.
func (s *ExportService) Workbook(ctx context.Context) ([]byte, error) {
	db := s.DB.WithContext(ctx)

	var problems []models.Problem
	if err := db.Order("id asc").Find(&problems).Error; err != nil {
		return nil, err
	}
	var solutions []models.Solution
	if err := db.Order("id asc").Find(&solutions).Error; err != nil {
		return nil, err
	}
	var inspirations []models.NatureInspiration
	if err := db.Order("id asc").Find(&inspirations).Error; err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Problems"); err != nil {
		return nil, err
	}
	problemRows := make([][]any, 0, len(problems))
	for _, p := range problems {
		problemRows = append(problemRows, []any{
			p.ID, p.Title, p.Description, p.Category, string(p.Status), strings.Join(p.Tags, ", "),
			p.SubmittedBy, p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	if err := writeSheet(f, "Problems",
		[]string{"ID", "Title", "Description", "Category", "Status", "Tags", "Submitted By", "Created At"},
		problemRows); err != nil {
		return nil, err
	}

	solutionRows := make([][]any, 0, len(solutions))
	for _, sol := range solutions {
		submitter := ""
		if sol.SubmittedBy != nil {
			submitter = fmt.Sprint(*sol.SubmittedBy)
		}
		solutionRows = append(solutionRows, []any{
			sol.ID, sol.ProblemID, sol.Title, sol.NatureInspiration, sol.BiomimicryPrinciple,
			strings.Join(sol.Benefits, ", "), string(sol.GeneratedBy), submitter, sol.Likes,
		})
	}
	if err := writeSheet(f, "Solutions",
		[]string{"ID", "Problem ID", "Title", "Nature Inspiration", "Biomimicry Principle", "Benefits", "Generated By", "Submitted By", "Likes"},
		solutionRows); err != nil {
		return nil, err
	}

	inspirationRows := make([][]any, 0, len(inspirations))
	for _, in := range inspirations {
		inspirationRows = append(inspirationRows, []any{
			in.ID, in.Title, in.Organism, in.Mechanism, in.Category, strings.Join(in.EngineeringApplications, ", "),
		})
	}
	if err := writeSheet(f, "Inspirations",
		[]string{"ID", "Title", "Organism", "Mechanism", "Category", "Engineering Applications"},
		inspirationRows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeSheet legt das Blatt bei Bedarf an und schreibt Kopfzeile und Daten ab A1.
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Snapshot lädt den aktuellen Auszug nach exports/biomimic-<UTC-Zeit>.xlsx hoch und gibt den Schlüssel zurück.
func (s *ExportService) Snapshot(ctx context.Context) (string, error) {
	if s.Uploader == nil || s.Target.Bucket == "" {
		return "", newError(ErrValidation, "Export storage is not configured")
	}
	data, err := s.Workbook(ctx)
	if err != nil {
		s.Logger.Error("Failed to build workbook", zap.Error(err))
		return "", err
	}

	key := fmt.Sprintf("exports/biomimic-%s.xlsx", s.now().UTC().Format("2006-01-02T15-04-05Z"))
	link, err := storage.UploadFile(ctx, s.Uploader, s.Target, key, data, xlsxContentType)
	if err != nil {
		s.Logger.Error("Failed to upload snapshot", zap.String("key", key), zap.Error(err))
		return "", err
	}
	metrics.ExportsUploaded.Inc()
	s.Logger.Info("Snapshot uploaded", zap.String("link", link), zap.Int("bytes", len(data)))
	return key, nil
}
