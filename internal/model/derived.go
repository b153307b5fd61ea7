package model

import (
	"time"

	"gorm.io/datatypes"
)

// Derived caches keyed by user. Every table here is cleared by the
// invalidation coordinator when the owning user's birth chart changes;
// content is rebuilt lazily by the features that own it.

// SynastryReport is a cached compatibility reading against a named partner.
type SynastryReport struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"`
	UserID      int64          `gorm:"index;not null"`
	PartnerName string         `gorm:"size:128"`
	Payload     datatypes.JSON `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"not null"`
}

// DailyHoroscope is a cached generated horoscope for one user and day.
type DailyHoroscope struct {
	UserID     int64          `gorm:"primaryKey;autoIncrement:false"`
	Date       string         `gorm:"primaryKey;size:10"`
	Content    datatypes.JSON `gorm:"not null"`
	ComputedAt time.Time      `gorm:"not null"`
}

// MonthlyInsight is a cached month-level reading, keyed by YYYY-MM.
type MonthlyInsight struct {
	UserID     int64          `gorm:"primaryKey;autoIncrement:false"`
	Month      string         `gorm:"primaryKey;size:7"`
	Payload    datatypes.JSON `gorm:"not null"`
	ComputedAt time.Time      `gorm:"not null"`
}

// CosmicReport is a cached long-form report (natal, transit, solar return).
type CosmicReport struct {
	ID         int64          `gorm:"primaryKey;autoIncrement"`
	UserID     int64          `gorm:"index;not null"`
	Kind       string         `gorm:"size:32;not null"`
	Payload    datatypes.JSON `gorm:"not null"`
	ComputedAt time.Time      `gorm:"not null"`
}

// JournalPattern is a cached correlation between journal entries and
// cosmic conditions.
type JournalPattern struct {
	ID         int64          `gorm:"primaryKey;autoIncrement"`
	UserID     int64          `gorm:"index;not null"`
	Payload    datatypes.JSON `gorm:"not null"`
	ComputedAt time.Time      `gorm:"not null"`
}

// PatternAnalysis is the cached aggregate analysis over a user's journal.
type PatternAnalysis struct {
	UserID     int64          `gorm:"primaryKey;autoIncrement:false"`
	Payload    datatypes.JSON `gorm:"not null"`
	ComputedAt time.Time      `gorm:"not null"`
}

// YearAnalysis is a cached year-ahead reading.
type YearAnalysis struct {
	UserID     int64          `gorm:"primaryKey;autoIncrement:false"`
	Year       int            `gorm:"primaryKey;autoIncrement:false"`
	Payload    datatypes.JSON `gorm:"not null"`
	ComputedAt time.Time      `gorm:"not null"`
}

// FriendConnection is the friendship row. On birth-chart change only the
// cached synastry score is reset; the friendship itself must survive.
type FriendConnection struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	UserID        int64     `gorm:"index;not null"`
	FriendUserID  int64     `gorm:"index;not null"`
	SynastryScore *float64
	CreatedAt     time.Time `gorm:"not null"`
}
