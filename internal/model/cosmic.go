package model

import (
	"time"

	"gorm.io/datatypes"
)

// GlobalCosmicData is the day-scoped astronomical snapshot shared by all
// users. One row per UTC calendar day, immutable after creation; every
// per-user computation reads this instead of recomputing astronomy.
type GlobalCosmicData struct {
	Date               string         `gorm:"primaryKey;size:10" json:"date"` // YYYY-MM-DD, UTC
	MoonPhase          datatypes.JSON `gorm:"not null" json:"moon_phase"`
	PlanetaryPositions datatypes.JSON `gorm:"not null" json:"planetary_positions"`
	SignificantEvents  datatypes.JSON `json:"significant_events"`
	EclipseActive      bool           `gorm:"not null" json:"eclipse_active"`
	RetrogradeActive   bool           `gorm:"not null" json:"retrograde_active"`
	ComputedAt         time.Time      `gorm:"not null" json:"computed_at"`
}

// TableName pins the table name; "data" does not pluralize cleanly.
func (GlobalCosmicData) TableName() string {
	return "global_cosmic_data"
}

// CosmicSnapshot is a user's personalized view of one day, derived from
// GlobalCosmicData and the user's birth chart. Rebuilt on demand or by the
// batch refresh job; deleted whenever the birth chart changes.
type CosmicSnapshot struct {
	UserID           int64          `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Date             string         `gorm:"primaryKey;size:10" json:"date"`
	GlobalDate       string         `gorm:"size:10;not null" json:"global_date"`
	PersonalTransits datatypes.JSON `json:"personal_transits"`
	PersonalAspects  datatypes.JSON `json:"personal_aspects"`
	Highlights       datatypes.JSON `json:"highlights"`
	ComputedAt       time.Time      `gorm:"not null" json:"computed_at"`
}
