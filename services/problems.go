package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"biomimic/metrics"
	"biomimic/models"
)

// ProblemFilter filtert die Problemliste. Leere Felder filtern nicht.
type ProblemFilter struct {
	Category string
	Status   string
}

// SubmitProblemInput sind die Felder, die ein Nutzer beim Einreichen angibt.
type SubmitProblemInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Tags        []string `json:"tags"`
}

// ProblemView ist ein Problem angereichert um Einreicher und Lösungsanzahl.
type ProblemView struct {
	models.Problem
	SubmitterName  string `json:"submitter_name"`
	SolutionsCount int64  `json:"solutions_count"`
}

// ProblemService kapselt Abfragen und Mutationen auf problems.
type ProblemService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewProblemService erstellt eine neue Instanz des ProblemService.
func NewProblemService(db *gorm.DB, logger *zap.Logger) *ProblemService {
	return &ProblemService{DB: db, Logger: logger}
}

// List liefert Probleme, neueste zuerst. Kategorie und Status werden UND-verknüpft.
func (s *ProblemService) List(ctx context.Context, f ProblemFilter) ([]ProblemView, error) {
	query := s.DB.WithContext(ctx).Model(&models.Problem{})
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		if !models.ProblemStatus(f.Status).Valid() {
			return nil, newError(ErrValidation, "Unknown status %q", f.Status)
		}
		query = query.Where("status = ?", f.Status)
	}

	var problems []models.Problem
	if err := query.Order("created_at desc, id desc").Find(&problems).Error; err != nil {
		return nil, err
	}
	if len(problems) == 0 {
		return []ProblemView{}, nil
	}

	problemIDs := make([]uint, 0, len(problems))
	userIDs := make([]uint, 0, len(problems))
	for _, p := range problems {
		problemIDs = append(problemIDs, p.ID)
		userIDs = append(userIDs, p.SubmittedBy)
	}

	users, err := loadUsers(ctx, s.DB, userIDs)
	if err != nil {
		return nil, err
	}
	counts, err := s.solutionCounts(ctx, problemIDs)
	if err != nil {
		return nil, err
	}

	out := make([]ProblemView, 0, len(problems))
	for _, p := range problems {
		out = append(out, ProblemView{
			Problem:        p,
			SubmitterName:  users[p.SubmittedBy].DisplayName("Anonymous"),
			SolutionsCount: counts[p.ID],
		})
	}
	return out, nil
}

func (s *ProblemService) solutionCounts(ctx context.Context, problemIDs []uint) (map[uint]int64, error) {
	var rows []struct {
		ProblemID uint
		Count     int64
	}
	err := s.DB.WithContext(ctx).
		Model(&models.Solution{}).
		Select("problem_id, count(*) as count").
		Where("problem_id IN ?", problemIDs).
		Group("problem_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.ProblemID] = r.Count
	}
	return counts, nil
}

// Submit legt ein neues Problem mit Status "pending" an.
func (s *ProblemService) Submit(ctx context.Context, userID uint, in SubmitProblemInput) (*models.Problem, error) {
	if userID == 0 {
		return nil, newError(ErrUnauthenticated, "Must be logged in to submit problems")
	}
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	category := strings.TrimSpace(in.Category)
	if title == "" || description == "" || category == "" {
		return nil, newError(ErrValidation, "Please fill in all required fields")
	}

	problem := &models.Problem{
		Title:       title,
		Description: description,
		Category:    category,
		SubmittedBy: userID,
		Status:      models.StatusPending,
		Tags:        cleanList(in.Tags),
	}
	if err := s.DB.WithContext(ctx).Create(problem).Error; err != nil {
		s.Logger.Error("Failed to create problem", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	metrics.ProblemsSubmitted.Inc()
	s.Logger.Info("Problem submitted", zap.Uint("id", problem.ID), zap.String("category", problem.Category))
	return problem, nil
}

// Get liefert ein Problem samt Einreicher-Namen.
func (s *ProblemService) Get(ctx context.Context, id uint) (*ProblemView, error) {
	var problem models.Problem
	if err := s.DB.WithContext(ctx).First(&problem, id).Error; err != nil {
		return nil, notFound(err, "Problem not found")
	}
	users, err := loadUsers(ctx, s.DB, []uint{problem.SubmittedBy})
	if err != nil {
		return nil, err
	}
	return &ProblemView{
		Problem:       problem,
		SubmitterName: users[problem.SubmittedBy].DisplayName("Anonymous"),
	}, nil
}

// UpdateStatus setzt den Status. Nur der Einreicher darf das.
func (s *ProblemService) UpdateStatus(ctx context.Context, userID, id uint, status string) (*models.Problem, error) {
	if userID == 0 {
		return nil, newError(ErrUnauthenticated, "Must be logged in to update problems")
	}
	st := models.ProblemStatus(status)
	if !st.Valid() {
		return nil, newError(ErrValidation, "Unknown status %q", status)
	}

	var problem models.Problem
	if err := s.DB.WithContext(ctx).First(&problem, id).Error; err != nil {
		return nil, notFound(err, "Problem not found")
	}
	if problem.SubmittedBy != userID {
		return nil, newError(ErrForbidden, "Only the submitter can change the status")
	}
	if err := s.DB.WithContext(ctx).Model(&problem).Update("status", st).Error; err != nil {
		s.Logger.Error("Failed to update problem status", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	problem.Status = st
	return &problem, nil
}

// loadUsers lädt Nutzer per ID; fehlende IDs fehlen einfach in der Map.
func loadUsers(ctx context.Context, db *gorm.DB, ids []uint) (map[uint]*models.User, error) {
	out := make(map[uint]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}
