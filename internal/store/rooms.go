package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dorm-rental-backend/internal/apperr"
	"dorm-rental-backend/internal/billing"
	"dorm-rental-backend/internal/model"
	"dorm-rental-backend/internal/occupancy"
	"dorm-rental-backend/internal/parse"
)

// findRoom loads a room and its dorm, scoped to ownerID unless it is zero.
// A room in someone else's dorm is reported as missing.
func findRoom(tx *gorm.DB, ownerID, roomID int64, lock bool) (model.Room, model.Dorm, error) {
	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var room model.Room
	if err := q.Where("id = ?", roomID).First(&room).Error; err != nil {
		return model.Room{}, model.Dorm{}, notFound(err, "room", roomID)
	}
	dorm, err := findDorm(tx, ownerID, room.DormID)
	if apperr.IsNotFound(err) {
		return model.Room{}, model.Dorm{}, apperr.NotFound("room", roomID)
	}
	if err != nil {
		return model.Room{}, model.Dorm{}, err
	}
	room.Dorm = dorm
	return room, dorm, nil
}

func roomNumberTaken(tx *gorm.DB, dormID int64, number string, exceptID int64) error {
	var n int64
	err := tx.Model(&model.Room{}).
		Where("dorm_id = ? AND room_number = ? AND id <> ?", dormID, number, exceptID).
		Count(&n).Error
	if err != nil {
		return fmt.Errorf("failed to check room number: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: room %s already exists in this dorm", apperr.ErrConflict, number)
	}
	return nil
}

// CreateRoom adds a vacant room to a dorm. Room numbers are unique within a dorm.
func (s *gormStore) CreateRoom(ctx context.Context, ownerID int64, r *model.Room) error {
	r.ID = 0
	r.RoomNumber = strings.TrimSpace(r.RoomNumber)
	if r.RoomNumber == "" {
		return apperr.Validation("room number is required")
	}
	if r.RoomType == "" {
		r.RoomType = model.RoomTypeFan
	}
	if !r.RoomType.Valid() {
		return apperr.Validation("unknown room type %q", r.RoomType)
	}
	prices := r.Prices()
	for _, period := range roomPricePeriods {
		if err := checkPrice(period, prices.Get(period)); err != nil {
			return err
		}
	}
	r.ApplyOccupancy(occupancy.Vacant())

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dorm, err := findDorm(tx, ownerID, r.DormID)
		if err != nil {
			return err
		}
		if err := roomNumberTaken(tx, r.DormID, r.RoomNumber, 0); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(r).Error; err != nil {
			return fmt.Errorf("failed to create room %s: %w", r.RoomNumber, err)
		}
		r.Dorm = dorm
		return nil
	})
}

var roomPricePeriods = []parse.Period{parse.PeriodDaily, parse.PeriodMonthly, parse.PeriodTerm}

// checkPrice rejects price text the listing parser cannot read. Blank is allowed.
func checkPrice(period parse.Period, raw string) error {
	if _, err := parse.ParsePrice(raw); err != nil && !errors.Is(err, parse.ErrNoPrice) {
		return apperr.Validation("%s price: %v", period, err)
	}
	return nil
}

// GetRoom loads one room.
func (s *gormStore) GetRoom(ctx context.Context, ownerID, roomID int64) (model.Room, error) {
	room, _, err := findRoom(s.db.WithContext(ctx), ownerID, roomID, false)
	return room, err
}

// ListRooms returns a dorm's rooms ordered by floor and number.
func (s *gormStore) ListRooms(ctx context.Context, ownerID, dormID int64) ([]model.Room, error) {
	db := s.db.WithContext(ctx)
	if _, err := findDorm(db, ownerID, dormID); err != nil {
		return nil, err
	}
	var rooms []model.Room
	if err := db.Where("dorm_id = ?", dormID).Order("floor, room_number").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms of dorm %d: %w", dormID, err)
	}
	return rooms, nil
}

// RoomSummary counts a dorm's rooms by occupancy.
func (s *gormStore) RoomSummary(ctx context.Context, ownerID, dormID int64) (RoomSummary, error) {
	db := s.db.WithContext(ctx)
	if _, err := findDorm(db, ownerID, dormID); err != nil {
		return RoomSummary{}, err
	}

	var sum RoomSummary
	if err := db.Model(&model.Room{}).Where("dorm_id = ?", dormID).Count(&sum.Total).Error; err != nil {
		return RoomSummary{}, fmt.Errorf("failed to count rooms: %w", err)
	}
	if err := db.Model(&model.Room{}).Where("dorm_id = ? AND is_occupied = ?", dormID, true).Count(&sum.Occupied).Error; err != nil {
		return RoomSummary{}, fmt.Errorf("failed to count occupied rooms: %w", err)
	}
	sum.Vacant = sum.Total - sum.Occupied
	return sum, nil
}

// UpdateRoom changes allow-listed room columns. Occupancy and meters have their own methods.
func (s *gormStore) UpdateRoom(ctx context.Context, ownerID, roomID int64, fields map[string]any) (model.Room, error) {
	updates, err := pick(fields, roomColumns)
	if err != nil {
		return model.Room{}, err
	}
	if v, ok := updates["room_type"]; ok {
		var rt model.RoomType
		switch t := v.(type) {
		case model.RoomType:
			rt = t
		case string:
			rt = model.RoomType(t)
		}
		if !rt.Valid() {
			return model.Room{}, apperr.Validation("unknown room type %v", v)
		}
		updates["room_type"] = rt
	}
	for _, period := range roomPricePeriods {
		if v, ok := updates["price_"+string(period)]; ok {
			raw, _ := v.(string)
			if err := checkPrice(period, raw); err != nil {
				return model.Room{}, err
			}
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, _, err := findRoom(tx, ownerID, roomID, true)
		if err != nil {
			return err
		}
		if v, ok := updates["room_number"]; ok {
			number, _ := v.(string)
			number = strings.TrimSpace(number)
			if number == "" {
				return apperr.Validation("room number is required")
			}
			if err := roomNumberTaken(tx, room.DormID, number, room.ID); err != nil {
				return err
			}
			updates["room_number"] = number
		}
		return tx.Model(&model.Room{}).Where("id = ?", roomID).Updates(updates).Error
	})
	if err != nil {
		return model.Room{}, err
	}
	return s.GetRoom(ctx, ownerID, roomID)
}

// DeleteRoom removes a room and its bill history.
func (s *gormStore) DeleteRoom(ctx context.Context, ownerID, roomID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, _, err := findRoom(tx, ownerID, roomID, true); err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&model.BillRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete bills of room %d: %w", roomID, err)
		}
		return tx.Delete(&model.Room{}, roomID).Error
	})
}

// MoveIn records a tenant in a vacant room.
func (s *gormStore) MoveIn(ctx context.Context, ownerID, roomID int64, tenant occupancy.Tenant) (model.Room, error) {
	return s.changeOccupancy(ctx, ownerID, roomID, func(cur occupancy.State) (occupancy.State, error) {
		return cur.MoveIn(tenant)
	})
}

// MoveOut vacates a room. Meter history and bills stay.
func (s *gormStore) MoveOut(ctx context.Context, ownerID, roomID int64) (model.Room, error) {
	return s.changeOccupancy(ctx, ownerID, roomID, func(cur occupancy.State) (occupancy.State, error) {
		return cur.MoveOut(), nil
	})
}

func (s *gormStore) changeOccupancy(ctx context.Context, ownerID, roomID int64, next func(occupancy.State) (occupancy.State, error)) (model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		room, _, err = findRoom(tx, ownerID, roomID, true)
		if err != nil {
			return err
		}
		state, err := next(room.Occupancy())
		if err != nil {
			return err
		}
		room.ApplyOccupancy(state)
		return tx.Model(&model.Room{}).Where("id = ?", roomID).Updates(map[string]any{
			"is_occupied":  room.IsOccupied,
			"tenant_name":  room.TenantName,
			"tenant_phone": room.TenantPhone,
			"move_in_date": room.MoveInDate,
		}).Error
	})
	if err != nil {
		return model.Room{}, err
	}
	return room, nil
}

// RecordMeters overwrites parts of a room's meter snapshot. The resulting pairs must
// be non-negative with new not below old.
func (s *gormStore) RecordMeters(ctx context.Context, ownerID, roomID int64, u MeterUpdate) (model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		room, _, err = findRoom(tx, ownerID, roomID, true)
		if err != nil {
			return err
		}

		setDecimal(&room.ElectricityMeterOld, u.ElectricityOld)
		setDecimal(&room.ElectricityMeterNew, u.ElectricityNew)
		setDecimal(&room.WaterMeterOld, u.WaterOld)
		setDecimal(&room.WaterMeterNew, u.WaterNew)
		if u.ReadingDate != nil {
			room.MeterReadingDate = u.ReadingDate
		}
		if u.ElectricityNote != nil {
			room.ElectricityNote = *u.ElectricityNote
		}
		if u.WaterNote != nil {
			room.WaterNote = *u.WaterNote
		}

		m := room.Meters()
		for _, r := range []billing.MeterReading{
			{Old: m.ElectricityOld, New: m.ElectricityNew},
			{Old: m.WaterOld, New: m.WaterNew},
		} {
			if _, err := r.Units(); err != nil {
				return err
			}
		}

		cols := model.MeterColumns(m)
		cols["electricity_note"] = room.ElectricityNote
		cols["water_note"] = room.WaterNote
		return tx.Model(&model.Room{}).Where("id = ?", roomID).Updates(cols).Error
	})
	if err != nil {
		return model.Room{}, err
	}
	return room, nil
}

func setDecimal(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}
