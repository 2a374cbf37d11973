package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"dorm-rental-backend/internal/apperr"
	"dorm-rental-backend/internal/approval"
	"dorm-rental-backend/internal/auth"
	"dorm-rental-backend/internal/billing"
	"dorm-rental-backend/internal/model"
	"dorm-rental-backend/internal/occupancy"
)

// Store defines the interface for all database operations.
//
// Methods taking an ownerID restrict the lookup to that owner's dorms; an ownerID of
// zero skips the check (admin access). Rows owned by someone else are reported as
// not found.
type Store interface {
	DB() *gorm.DB
	Ping(ctx context.Context) error

	// Accounts
	CreateAccount(ctx context.Context, role auth.Role, acct model.Account, lineID string) (Profile, error)
	FindByEmail(ctx context.Context, email string) (Principal, error)
	GetProfile(ctx context.Context, role auth.Role, id int64) (Profile, error)
	UpdateProfile(ctx context.Context, role auth.Role, id int64, fields map[string]any) (Profile, error)
	EnsureAdmin(ctx context.Context, email, passwordHash string) (bool, error)

	// Dorms
	CreateDorm(ctx context.Context, d *model.Dorm) error
	GetDorm(ctx context.Context, ownerID, id int64) (model.Dorm, error)
	GetPublicDorm(ctx context.Context, id int64) (model.Dorm, error)
	ListPublicDorms(ctx context.Context, f DormFilter) ([]model.Dorm, error)
	ListOwnerDorms(ctx context.Context, ownerID int64) ([]model.Dorm, error)
	ListDormsByStatus(ctx context.Context, status approval.Status) ([]model.Dorm, error)
	UpdateDorm(ctx context.Context, ownerID, id int64, fields map[string]any) (model.Dorm, error)
	DeleteDorm(ctx context.Context, ownerID, id int64) ([]string, error)
	ReviewDorm(ctx context.Context, id int64, approve bool, reason string) (model.Dorm, error)
	AddImages(ctx context.Context, ownerID, dormID int64, paths []string) ([]model.DormImage, error)
	DeleteImage(ctx context.Context, ownerID, dormID, imageID int64) (string, error)

	// Rooms
	CreateRoom(ctx context.Context, ownerID int64, r *model.Room) error
	GetRoom(ctx context.Context, ownerID, roomID int64) (model.Room, error)
	ListRooms(ctx context.Context, ownerID, dormID int64) ([]model.Room, error)
	RoomSummary(ctx context.Context, ownerID, dormID int64) (RoomSummary, error)
	UpdateRoom(ctx context.Context, ownerID, roomID int64, fields map[string]any) (model.Room, error)
	DeleteRoom(ctx context.Context, ownerID, roomID int64) error
	MoveIn(ctx context.Context, ownerID, roomID int64, tenant occupancy.Tenant) (model.Room, error)
	MoveOut(ctx context.Context, ownerID, roomID int64) (model.Room, error)
	RecordMeters(ctx context.Context, ownerID, roomID int64, u MeterUpdate) (model.Room, error)

	// Bills
	PreviewBill(ctx context.Context, ownerID, roomID int64, req BillRequest) (billing.Bill, error)
	FinalizeBill(ctx context.Context, ownerID, roomID int64, req BillRequest) (model.BillRecord, error)
	ListBills(ctx context.Context, ownerID, roomID int64) ([]model.BillRecord, error)

	// Push subscriptions
	SaveSubscription(ctx context.Context, sub model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error)
	ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	MarkNotified(ctx context.Context, endpoints []string, at time.Time) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, now: time.Now}
}

// DB returns the underlying handle.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// Ping checks that the database is reachable.
func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// notFound turns gorm's missing-row error into a NotFoundError.
func notFound(err error, entity string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return fmt.Errorf("failed to load %s %d: %w", entity, id, err)
}
