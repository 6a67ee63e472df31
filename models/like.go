package models

import "time"

// Like verknüpft einen Nutzer mit einer Lösung. Die Kombination ist eindeutig.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	UserID     uint `json:"user_id" gorm:"not null;uniqueIndex:idx_user_solution;index"`
	SolutionID uint `json:"solution_id" gorm:"not null;uniqueIndex:idx_user_solution;index"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Like) TableName() string {
	return "likes"
}
