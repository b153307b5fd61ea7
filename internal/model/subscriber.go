package model

import (
	"time"

	"gorm.io/datatypes"
)

// Subscriber is the slice of the user profile this service reads: birth
// data plus the fields the batch job needs for presentation. The profile
// itself is owned by the account service.
type Subscriber struct {
	UserID        int64          `gorm:"primaryKey" json:"user_id"`
	DisplayName   string         `gorm:"size:128" json:"display_name"`
	Birthday      *time.Time     `json:"birthday"`
	Timezone      string         `gorm:"size:64" json:"timezone"`
	Locale        string         `gorm:"size:16" json:"locale"`
	NotifyEnabled bool           `gorm:"index;not null" json:"notify_enabled"`
	BirthChart    datatypes.JSON `json:"birth_chart"`
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time      `gorm:"not null"`
}

// BirthChartPosition is one placement inside the BirthChart JSON column.
type BirthChartPosition struct {
	Body      string  `json:"body"`
	Sign      string  `json:"sign"`
	Degree    float64 `json:"degree"`
	Longitude float64 `json:"longitude"`
}

// PushSubscription holds a browser push subscription for a user.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	UserID    int64     `gorm:"index;not null"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}
