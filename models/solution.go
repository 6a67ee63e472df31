package models

import (
	"slices"
	"time"

	"gorm.io/datatypes"
)

// Generator gibt an, wer eine Lösung verfasst hat.
type Generator string

const (
	GeneratedByAI   Generator = "ai"
	GeneratedByUser Generator = "user"
)

// Solution ist eine von der Natur inspirierte Antwort auf ein Problem, von der KI oder einem Nutzer verfasst.
type Solution struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProblemID uint `json:"problem_id" gorm:"index;not null"`

	Title               string                      `json:"title" gorm:"not null"`
	Description         string                      `json:"description" gorm:"type:text"`
	NatureInspiration   string                      `json:"nature_inspiration" gorm:"type:text"`
	BiomimicryPrinciple string                      `json:"biomimicry_principle" gorm:"type:text"`
	Implementation      string                      `json:"implementation" gorm:"type:text"`
	Benefits            datatypes.JSONSlice[string] `json:"benefits"`

	GeneratedBy Generator `json:"generated_by" gorm:"not null"`
	SubmittedBy *uint     `json:"submitted_by,omitempty" gorm:"index"`

	// Likes ist immer len(LikedBy)
	Likes   int                       `json:"likes" gorm:"index;not null;default:0"`
	LikedBy datatypes.JSONSlice[uint] `json:"liked_by"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Solution) TableName() string {
	return "solutions"
}

// IsLikedBy meldet, ob userID in der Liker-Liste steht.
func (s *Solution) IsLikedBy(userID uint) bool {
	return slices.Contains(s.LikedBy, userID)
}
