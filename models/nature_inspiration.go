package models

import "gorm.io/datatypes"

// NatureInspiration ist ein Katalogeintrag, der einen biologischen Mechanismus beschreibt.
// Die Daten werden einmalig beim Start geseedet.
type NatureInspiration struct {
	ID uint `json:"id" gorm:"primaryKey"`

	Title                   string                      `json:"title" gorm:"not null"`
	Organism                string                      `json:"organism" gorm:"index;not null"`
	Mechanism               string                      `json:"mechanism"`
	Description             string                      `json:"description" gorm:"type:text"`
	EngineeringApplications datatypes.JSONSlice[string] `json:"engineering_applications"`
	Category                string                      `json:"category" gorm:"index;not null"`
	ImageURL                *string                     `json:"image_url,omitempty"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (NatureInspiration) TableName() string {
	return "nature_inspirations"
}
