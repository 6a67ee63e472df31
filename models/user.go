package models

import "time"

// User ist das Profil eines angemeldeten Nutzers. Authentifizierung selbst liegt außerhalb dieses Dienstes.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Name  string `json:"name"`
	Email string `json:"email" gorm:"uniqueIndex;not null"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (User) TableName() string {
	return "users"
}

// DisplayName liefert Name, sonst E-Mail, sonst fallback.
func (u *User) DisplayName(fallback string) string {
	if u == nil {
		return fallback
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return fallback
}
