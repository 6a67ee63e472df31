package services

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"biomimic/models"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// catalogEntry ist das YAML-Format eines Katalogeintrags.
type catalogEntry struct {
	Title                   string   `yaml:"title"`
	Organism                string   `yaml:"organism"`
	Mechanism               string   `yaml:"mechanism"`
	Description             string   `yaml:"description"`
	EngineeringApplications []string `yaml:"engineering_applications"`
	Category                string   `yaml:"category"`
	ImageURL                string   `yaml:"image_url"`
}

// InspirationFilter filtert den Katalog über die Indizes category und organism.
type InspirationFilter struct {
	Category string
	Organism string
}

// InspirationService verwaltet den statischen Katalog der Natur-Inspirationen.
type InspirationService struct {
	DB          *gorm.DB
	Logger      *zap.Logger
	CatalogPath string
}

// NewInspirationService erstellt eine neue Instanz. Ein leerer catalogPath nutzt den eingebauten Katalog.
func NewInspirationService(db *gorm.DB, logger *zap.Logger, catalogPath string) *InspirationService {
	return &InspirationService{DB: db, Logger: logger, CatalogPath: catalogPath}
}

// List liefert den Katalog, optional gefiltert.
func (s *InspirationService) List(ctx context.Context, f InspirationFilter) ([]models.NatureInspiration, error) {
	query := s.DB.WithContext(ctx).Model(&models.NatureInspiration{})
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Organism != "" {
		query = query.Where("organism = ?", f.Organism)
	}
	out := []models.NatureInspiration{}
	if err := query.Order("id asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Categories liefert alle vorhandenen Kategorien, alphabetisch.
func (s *InspirationService) Categories(ctx context.Context) ([]string, error) {
	out := []string{}
	err := s.DB.WithContext(ctx).
		Model(&models.NatureInspiration{}).
		Distinct().
		Order("category asc").
		Pluck("category", &out).Error
	return out, err
}

// Seed füllt den Katalog, falls er leer ist. Bestehende Daten bleiben unberührt.
func (s *InspirationService) Seed(ctx context.Context) (int, error) {
	var existing int64
	if err := s.DB.WithContext(ctx).Model(&models.NatureInspiration{}).Count(&existing).Error; err != nil {
		return 0, err
	}
	if existing > 0 {
		s.Logger.Debug("Nature inspirations already seeded", zap.Int64("rows", existing))
		return 0, nil
	}

	entries, err := s.loadCatalog()
	if err != nil {
		return 0, err
	}
	rows := make([]models.NatureInspiration, 0, len(entries))
	for _, e := range entries {
		row := models.NatureInspiration{
			Title:                   e.Title,
			Organism:                e.Organism,
			Mechanism:               e.Mechanism,
			Description:             e.Description,
			EngineeringApplications: cleanList(e.EngineeringApplications),
			Category:                e.Category,
		}
		if e.ImageURL != "" {
			url := e.ImageURL
			row.ImageURL = &url
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := s.DB.WithContext(ctx).Create(&rows).Error; err != nil {
		return 0, err
	}
	s.Logger.Info("Seeded nature inspirations", zap.Int("count", len(rows)))
	return len(rows), nil
}

func (s *InspirationService) loadCatalog() ([]catalogEntry, error) {
	data := defaultCatalog
	if s.CatalogPath != "" {
		b, err := os.ReadFile(s.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", s.CatalogPath, err)
		}
		data = b
	}
	var entries []catalogEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, e := range entries {
		if e.Title == "" || e.Organism == "" || e.Category == "" {
			return nil, fmt.Errorf("catalog entry %d: title, organism and category are required", i)
		}
	}
	return entries, nil
}
