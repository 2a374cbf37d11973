package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"dorm-rental-backend/internal/billing"
	"dorm-rental-backend/internal/model"
	"dorm-rental-backend/internal/parse"
)

// billInput assembles the engine input for one cycle of room in dorm.
func billInput(room model.Room, dorm model.Dorm, req BillRequest, now time.Time) (billing.Input, parse.Period, error) {
	period := req.Period
	var in billing.Input
	in.Occupancy = room.Occupancy()
	if err := in.Occupancy.RequireOccupied(); err != nil {
		return billing.Input{}, period, err
	}
	if req.Rent != nil {
		in.Rent = *req.Rent
	} else {
		prices := room.Prices()
		if _, _, ok := prices.Priority(); !ok {
			prices = dorm.Prices()
		}
		var err error
		period, in.Rent, err = billing.RentFor(prices, period)
		if err != nil {
			return billing.Input{}, period, err
		}
	}

	m := room.Meters()
	in.Electricity = billing.MeterReading{Old: m.ElectricityOld, New: m.ElectricityNew, Rate: dorm.ElectricityCost}
	in.Water = billing.MeterReading{Old: m.WaterOld, New: m.WaterNew, Rate: dorm.WaterCost}
	if req.ElectricityNew != nil {
		in.Electricity.New = *req.ElectricityNew
	}
	if req.WaterNew != nil {
		in.Water.New = *req.WaterNew
	}

	switch {
	case req.ReadingDate != nil:
		in.ReadingDate = *req.ReadingDate
	case !m.ReadingDate.IsZero():
		in.ReadingDate = m.ReadingDate
	default:
		in.ReadingDate = now
	}
	return in, period, nil
}

// PreviewBill computes the bill for the room's current cycle without saving anything.
func (s *gormStore) PreviewBill(ctx context.Context, ownerID, roomID int64, req BillRequest) (billing.Bill, error) {
	room, dorm, err := findRoom(s.db.WithContext(ctx), ownerID, roomID, false)
	if err != nil {
		return billing.Bill{}, err
	}
	in, _, err := billInput(room, dorm, req, s.now())
	if err != nil {
		return billing.Bill{}, err
	}
	bill, err := billing.Compute(in)
	if err != nil {
		return billing.Bill{}, err
	}
	return bill.Rounded(), nil
}

// FinalizeBill bills the room's current cycle, stores the bill and rolls the meters
// over in a single transaction. The room row is locked for the duration.
func (s *gormStore) FinalizeBill(ctx context.Context, ownerID, roomID int64, req BillRequest) (model.BillRecord, error) {
	var record model.BillRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, dorm, err := findRoom(tx, ownerID, roomID, true)
		if err != nil {
			return err
		}
		in, period, err := billInput(room, dorm, req, s.now())
		if err != nil {
			return err
		}
		bill, next, err := billing.Finalize(in)
		if err != nil {
			return err
		}
		bill = bill.Rounded()

		tenant, _ := in.Occupancy.Tenant()
		record = model.BillRecord{
			RoomID:           room.ID,
			DormID:           dorm.ID,
			TenantName:       tenant.Name,
			TenantPhone:      tenant.Phone,
			MoveInDate:       tenant.MoveInDate,
			RentPeriod:       string(period),
			Rent:             bill.Rent,
			ElectricityOld:   in.Electricity.Old,
			ElectricityNew:   in.Electricity.New,
			ElectricityRate:  in.Electricity.Rate,
			ElectricityUnits: bill.ElectricityUnits,
			ElectricityCost:  bill.ElectricityCost,
			WaterOld:         in.Water.Old,
			WaterNew:         in.Water.New,
			WaterRate:        in.Water.Rate,
			WaterUnits:       bill.WaterUnits,
			WaterCost:        bill.WaterCost,
			Total:            bill.Total,
			ReadingDate:      bill.ReadingDate,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to store bill for room %d: %w", roomID, err)
		}

		if err := tx.Model(&model.Room{}).Where("id = ?", roomID).Updates(model.MeterColumns(next)).Error; err != nil {
			return fmt.Errorf("failed to roll meters over for room %d: %w", roomID, err)
		}
		return nil
	})
	if err != nil {
		return model.BillRecord{}, err
	}
	return record, nil
}

// ListBills returns a room's bill history, newest first.
func (s *gormStore) ListBills(ctx context.Context, ownerID, roomID int64) ([]model.BillRecord, error) {
	db := s.db.WithContext(ctx)
	if _, _, err := findRoom(db, ownerID, roomID, false); err != nil {
		return nil, err
	}
	var bills []model.BillRecord
	if err := db.Where("room_id = ?", roomID).Order("reading_date DESC, id DESC").Find(&bills).Error; err != nil {
		return nil, fmt.Errorf("failed to list bills of room %d: %w", roomID, err)
	}
	return bills, nil
}
