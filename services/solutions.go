package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"biomimic/metrics"
	"biomimic/models"
	"biomimic/providers"
)

// SolutionDraft sind die inhaltlichen Felder einer Lösung, wie sie das Modell liefert.
type SolutionDraft struct {
	Title               string   `json:"title" binding:"required"`
	Description         string   `json:"description" binding:"required"`
	NatureInspiration   string   `json:"natureInspiration"`
	BiomimicryPrinciple string   `json:"biomimicryPrinciple"`
	Implementation      string   `json:"implementation"`
	Benefits            []string `json:"benefits"`
}

func (d SolutionDraft) normalized() SolutionDraft {
	return SolutionDraft{
		Title:               strings.TrimSpace(d.Title),
		Description:         strings.TrimSpace(d.Description),
		NatureInspiration:   strings.TrimSpace(d.NatureInspiration),
		BiomimicryPrinciple: strings.TrimSpace(d.BiomimicryPrinciple),
		Implementation:      strings.TrimSpace(d.Implementation),
		Benefits:            cleanList(d.Benefits),
	}
}

// SolutionView ist eine Lösung mit Einreicher- und Problemtitel.
type SolutionView struct {
	models.Solution
	SubmitterName string `json:"submitter_name"`
	ProblemTitle  string `json:"problem_title,omitempty"`
}

// LikeResult ist der Zustand nach einem Like-Toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// SolutionService kümmert sich um Lösungen, Likes und die KI-Generierung.
type SolutionService struct {
	DB       *gorm.DB
	Logger   *zap.Logger
	Provider providers.Provider
}

// NewSolutionService erstellt eine neue Instanz des SolutionService.
func NewSolutionService(db *gorm.DB, logger *zap.Logger, provider providers.Provider) *SolutionService {
	return &SolutionService{DB: db, Logger: logger, Provider: provider}
}

// ListByProblem liefert alle Lösungen eines Problems, neueste zuerst.
func (s *SolutionService) ListByProblem(ctx context.Context, problemID uint) ([]SolutionView, error) {
	var solutions []models.Solution
	if err := s.DB.WithContext(ctx).
		Where("problem_id = ?", problemID).
		Order("created_at desc, id desc").
		Find(&solutions).Error; err != nil {
		return nil, err
	}
	return s.enrich(ctx, solutions, false)
}

// ListPopular liefert die 20 meistgelikten Lösungen mit Problemtitel.
func (s *SolutionService) ListPopular(ctx context.Context) ([]SolutionView, error) {
	var solutions []models.Solution
	if err := s.DB.WithContext(ctx).
		Order("likes desc, created_at desc, id desc").
		Limit(popularLimit).
		Find(&solutions).Error; err != nil {
		return nil, err
	}
	return s.enrich(ctx, solutions, true)
}

func (s *SolutionService) enrich(ctx context.Context, solutions []models.Solution, withProblem bool) ([]SolutionView, error) {
	out := make([]SolutionView, 0, len(solutions))
	if len(solutions) == 0 {
		return out, nil
	}

	var userIDs, problemIDs []uint
	for _, sol := range solutions {
		if sol.SubmittedBy != nil {
			userIDs = append(userIDs, *sol.SubmittedBy)
		}
		problemIDs = append(problemIDs, sol.ProblemID)
	}
	users, err := loadUsers(ctx, s.DB, userIDs)
	if err != nil {
		return nil, err
	}

	titles := map[uint]string{}
	if withProblem {
		var problems []models.Problem
		if err := s.DB.WithContext(ctx).Select("id", "title").Where("id IN ?", problemIDs).Find(&problems).Error; err != nil {
			return nil, err
		}
		for _, p := range problems {
			titles[p.ID] = p.Title
		}
	}

	for _, sol := range solutions {
		view := SolutionView{Solution: sol, SubmitterName: "AI Assistant"}
		if sol.SubmittedBy != nil {
			view.SubmitterName = users[*sol.SubmittedBy].DisplayName("AI Assistant")
		}
		if withProblem {
			view.ProblemTitle = titles[sol.ProblemID]
			if view.ProblemTitle == "" {
				view.ProblemTitle = "Unknown Problem"
			}
		}
		out = append(out, view)
	}
	return out, nil
}

// ToggleLike setzt oder entfernt das Like eines Nutzers in einer Transaktion.
// Danach gilt: likes-Zeile existiert genau dann, wenn der Nutzer in liked_by steht, und likes == len(liked_by).
func (s *SolutionService) ToggleLike(ctx context.Context, userID, solutionID uint) (*LikeResult, error) {
	if userID == 0 {
		return nil, newError(ErrUnauthenticated, "Must be logged in to like solutions")
	}

	var result LikeResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Zeilensperre serialisiert gleichzeitige Toggles auf dieselbe Lösung
		var solution models.Solution
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&solution, solutionID).Error; err != nil {
			return notFound(err, "Solution not found")
		}

		var existing models.Like
		err := tx.Where("user_id = ? AND solution_id = ?", userID, solutionID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			result.Liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Like{UserID: userID, SolutionID: solutionID}).Error; err != nil {
				return err
			}
			result.Liked = true
		default:
			return err
		}

		// liked_by wird aus den likes-Zeilen neu aufgebaut, damit beide nie auseinanderlaufen
		likedBy := []uint{}
		if err := tx.Model(&models.Like{}).
			Where("solution_id = ?", solutionID).
			Order("id asc").
			Pluck("user_id", &likedBy).Error; err != nil {
			return err
		}
		result.Likes = len(likedBy)
		return tx.Model(&models.Solution{}).Where("id = ?", solutionID).Updates(map[string]any{
			"likes":    result.Likes,
			"liked_by": datatypes.JSONSlice[uint](likedBy),
		}).Error
	})
	if err != nil {
		var svcErr *Error
		if !errors.As(err, &svcErr) {
			s.Logger.Error("Failed to toggle like", zap.Uint("solution_id", solutionID), zap.Uint("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	action := "unlike"
	if result.Liked {
		action = "like"
	}
	metrics.LikesToggled.WithLabelValues(action).Inc()
	return &result, nil
}

// GenerateAISolution lässt das Modell eine Lösung vorschlagen und speichert sie.
func (s *SolutionService) GenerateAISolution(ctx context.Context, problemID uint) (*models.Solution, error) {
	var problem models.Problem
	if err := s.DB.WithContext(ctx).First(&problem, problemID).Error; err != nil {
		return nil, notFound(err, "Problem not found")
	}

	log := s.Logger.With(zap.Uint("problem_id", problemID), zap.String("provider", s.Provider.Name()))
	log.Info("Generating AI solution")

	reply, err := s.Provider.Complete(ctx, providers.CompletionRequest{
		Messages:    []providers.Message{{Role: providers.RoleUser, Content: renderSolutionPrompt(&problem)}},
		Temperature: solutionTemperature,
	})
	if err != nil {
		log.Error("Error generating AI solution", zap.Error(err))
		metrics.AIFailures.WithLabelValues("solution").Inc()
		return nil, newError(ErrAIGeneration, "Failed to generate AI solution")
	}

	draft, err := parseSolutionDraft(reply)
	if err != nil {
		log.Error("Error parsing AI solution", zap.Error(err), zap.Int("reply_chars", len(reply)))
		metrics.AIFailures.WithLabelValues("solution").Inc()
		return nil, newError(ErrAIGeneration, "Failed to generate AI solution")
	}

	solution, err := s.CreateAISolution(ctx, problemID, draft)
	if err != nil {
		return nil, err
	}
	log.Info("AI solution saved", zap.Uint("solution_id", solution.ID))
	return solution, nil
}

// parseSolutionDraft liest das JSON-Objekt aus der Modellantwort.
func parseSolutionDraft(reply string) (SolutionDraft, error) {
	raw, ok := ExtractJSONObject(reply)
	if !ok {
		return SolutionDraft{}, fmt.Errorf("no JSON object in reply")
	}
	var draft SolutionDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return SolutionDraft{}, err
	}
	for _, f := range []*string{&draft.Title, &draft.Description, &draft.NatureInspiration, &draft.BiomimicryPrinciple, &draft.Implementation} {
		*f = NormalizeReply(*f)
	}
	draft = draft.normalized()
	if draft.Title == "" || draft.Description == "" {
		return SolutionDraft{}, fmt.Errorf("reply is missing title or description")
	}
	return draft, nil
}

// CreateAISolution speichert einen KI-Entwurf mit 0 Likes.
func (s *SolutionService) CreateAISolution(ctx context.Context, problemID uint, draft SolutionDraft) (*models.Solution, error) {
	return s.create(ctx, problemID, nil, models.GeneratedByAI, draft.normalized())
}

// CreateUserSolution speichert eine von einem Nutzer verfasste Lösung.
func (s *SolutionService) CreateUserSolution(ctx context.Context, userID, problemID uint, draft SolutionDraft) (*models.Solution, error) {
	if userID == 0 {
		return nil, newError(ErrUnauthenticated, "Must be logged in to submit solutions")
	}
	draft = draft.normalized()
	if draft.Title == "" || draft.Description == "" {
		return nil, newError(ErrValidation, "Please fill in all required fields")
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Problem{}).Where("id = ?", problemID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, newError(ErrNotFound, "Problem not found")
	}
	return s.create(ctx, problemID, &userID, models.GeneratedByUser, draft)
}

func (s *SolutionService) create(ctx context.Context, problemID uint, submittedBy *uint, by models.Generator, d SolutionDraft) (*models.Solution, error) {
	solution := &models.Solution{
		ProblemID:           problemID,
		Title:               d.Title,
		Description:         d.Description,
		NatureInspiration:   d.NatureInspiration,
		BiomimicryPrinciple: d.BiomimicryPrinciple,
		Implementation:      d.Implementation,
		Benefits:            d.Benefits,
		GeneratedBy:         by,
		SubmittedBy:         submittedBy,
		Likes:               0,
		LikedBy:             []uint{},
	}
	if err := s.DB.WithContext(ctx).Create(solution).Error; err != nil {
		s.Logger.Error("Failed to create solution", zap.Uint("problem_id", problemID), zap.Error(err))
		return nil, err
	}
	metrics.SolutionsGenerated.WithLabelValues(string(by)).Inc()
	return solution, nil
}
