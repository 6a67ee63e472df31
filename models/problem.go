package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProblemStatus is the lifecycle state of a submitted problem.
type ProblemStatus string

const (
	StatusPending    ProblemStatus = "pending"
	StatusInProgress ProblemStatus = "in_progress"
	StatusSolved     ProblemStatus = "solved"
)

// Valid reports whether s is one of the known statuses.
func (s ProblemStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusSolved:
		return true
	}
	return false
}

// Problem repräsentiert eine eingereichte Nachhaltigkeits-Herausforderung.
type Problem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string                      `json:"title" gorm:"not null"`
	Description string                      `json:"description" gorm:"type:text;not null"`
	Category    string                      `json:"category" gorm:"index;not null"`
	SubmittedBy uint                        `json:"submitted_by" gorm:"index;not null"`
	Status      ProblemStatus               `json:"status" gorm:"index;not null;default:'pending'"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Problem) TableName() string {
	return "problems"
}
