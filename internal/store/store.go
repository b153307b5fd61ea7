package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lunary-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Global cosmic cache, one row per UTC day.
	GetGlobalCosmicData(ctx context.Context, date string) (*model.GlobalCosmicData, error)
	SaveGlobalCosmicData(ctx context.Context, row *model.GlobalCosmicData) error

	// Per-user snapshot cache, one row per (user, day).
	GetSnapshot(ctx context.Context, userID int64, date string) (*model.CosmicSnapshot, error)
	SaveSnapshot(ctx context.Context, snap *model.CosmicSnapshot) error
	DeleteSnapshots(ctx context.Context, userID int64) error

	// Subscribers and their push endpoints.
	GetSubscriber(ctx context.Context, userID int64) (*model.Subscriber, error)
	SaveBirthChart(ctx context.Context, userID int64, chart datatypes.JSON) error
	ListNotifySubscribers(ctx context.Context, page, pageSize int) ([]model.Subscriber, error)
	PushSubscriptions(ctx context.Context, userID int64) ([]model.PushSubscription, error)
	SavePushSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeletePushSubscription(ctx context.Context, endpoint string) error

	// Derived-cache clears, one per downstream store.
	ClearSynastryReports(ctx context.Context, userID int64) error
	ClearDailyHoroscopes(ctx context.Context, userID int64) error
	ClearMonthlyInsights(ctx context.Context, userID int64) error
	ClearCosmicReports(ctx context.Context, userID int64) error
	ClearJournalPatterns(ctx context.Context, userID int64) error
	ClearPatternAnalyses(ctx context.Context, userID int64) error
	ClearYearAnalyses(ctx context.Context, userID int64) error
	ResetFriendSynastryScores(ctx context.Context, userID int64) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// GetGlobalCosmicData returns the row for the given day, or nil on a cache
// miss. A miss is not an error; the caller builds lazily.
func (s *gormStore) GetGlobalCosmicData(ctx context.Context, date string) (*model.GlobalCosmicData, error) {
	var row model.GlobalCosmicData
	err := s.db.WithContext(ctx).First(&row, "date = ?", date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch global cosmic data for %s: %w", date, err)
	}
	return &row, nil
}

// SaveGlobalCosmicData upserts the day row. Concurrent builders race
// harmlessly: inputs are deterministic per day, last writer wins.
func (s *gormStore) SaveGlobalCosmicData(ctx context.Context, row *model.GlobalCosmicData) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"moon_phase", "planetary_positions", "significant_events",
			"eclipse_active", "retrograde_active", "computed_at",
		}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert global cosmic data for %s: %w", row.Date, err)
	}
	return nil
}

func (s *gormStore) GetSnapshot(ctx context.Context, userID int64, date string) (*model.CosmicSnapshot, error) {
	var snap model.CosmicSnapshot
	err := s.db.WithContext(ctx).First(&snap, "user_id = ? AND date = ?", userID, date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot for user %d on %s: %w", userID, date, err)
	}
	return &snap, nil
}

// SaveSnapshot upserts on (user_id, date): at most one snapshot per user
// per day, and re-running the batch job for the same day is safe.
func (s *gormStore) SaveSnapshot(ctx context.Context, snap *model.CosmicSnapshot) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"global_date", "personal_transits", "personal_aspects",
			"highlights", "computed_at",
		}),
	}).Create(snap).Error
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot for user %d on %s: %w", snap.UserID, snap.Date, err)
	}
	return nil
}

func (s *gormStore) DeleteSnapshots(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.CosmicSnapshot{}).Error
}

func (s *gormStore) GetSubscriber(ctx context.Context, userID int64) (*model.Subscriber, error) {
	var sub model.Subscriber
	err := s.db.WithContext(ctx).First(&sub, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriber %d: %w", userID, err)
	}
	return &sub, nil
}

// SaveBirthChart upserts the chart column on the subscriber row.
func (s *gormStore) SaveBirthChart(ctx context.Context, userID int64, chart datatypes.JSON) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"birth_chart", "updated_at"}),
	}).Create(&model.Subscriber{UserID: userID, BirthChart: chart}).Error
	if err != nil {
		return fmt.Errorf("failed to save birth chart for user %d: %w", userID, err)
	}
	return nil
}

// ListNotifySubscribers pages through users eligible for the proactive
// refresh: notifications on and a birthday set. Pages are 1-based.
func (s *gormStore) ListNotifySubscribers(ctx context.Context, page, pageSize int) ([]model.Subscriber, error) {
	var subs []model.Subscriber
	err := s.db.WithContext(ctx).
		Where("notify_enabled = ? AND birthday IS NOT NULL", true).
		Order("user_id").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers page %d: %w", page, err)
	}
	return subs, nil
}

func (s *gormStore) PushSubscriptions(ctx context.Context, userID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch push subscriptions for user %d: %w", userID, err)
	}
	return subs, nil
}

func (s *gormStore) SavePushSubscription(ctx context.Context, sub *model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth"}),
	}).Create(sub).Error
}

func (s *gormStore) DeletePushSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

func (s *gormStore) ClearSynastryReports(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.SynastryReport{}).Error
}

func (s *gormStore) ClearDailyHoroscopes(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.DailyHoroscope{}).Error
}

func (s *gormStore) ClearMonthlyInsights(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.MonthlyInsight{}).Error
}

func (s *gormStore) ClearCosmicReports(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.CosmicReport{}).Error
}

func (s *gormStore) ClearJournalPatterns(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.JournalPattern{}).Error
}

func (s *gormStore) ClearPatternAnalyses(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.PatternAnalysis{}).Error
}

func (s *gormStore) ClearYearAnalyses(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.YearAnalysis{}).Error
}

// ResetFriendSynastryScores nulls the cached score on both sides of the
// user's friendships. A column reset, not a delete: the friendship row
// must survive the birth-chart change.
func (s *gormStore) ResetFriendSynastryScores(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Model(&model.FriendConnection{}).
		Where("user_id = ? OR friend_user_id = ?", userID, userID).
		Update("synastry_score", nil).Error
}
