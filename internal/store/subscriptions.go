package store

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"dorm-rental-backend/internal/model"
)

// SaveSubscription creates or replaces a push subscription keyed by endpoint.
func (s *gormStore) SaveSubscription(ctx context.Context, sub model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
	}).Create(&sub).Error
}

// GetSubscription returns gorm.ErrRecordNotFound for unknown endpoints.
func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error
	return sub, err
}

func (s *gormStore) ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).Order("created_at").Find(&subs).Error
	return subs, err
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

// MarkNotified stamps the last delivery time on the given endpoints.
func (s *gormStore) MarkNotified(ctx context.Context, endpoints []string, at time.Time) error {
	if len(endpoints) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&model.PushSubscription{}).
		Where("endpoint IN ?", endpoints).
		Update("last_notified_at", at).Error
}
