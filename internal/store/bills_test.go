package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dorm-rental-backend/internal/apperr"
	"dorm-rental-backend/internal/model"
	"dorm-rental-backend/internal/occupancy"
	"dorm-rental-backend/internal/parse"
)

// billableRoom seeds the reference cycle: rent 4000, electricity 3450.50 -> 3520.75 at 7.5,
// water 1250.25 -> 1280.50 at 18.
func billableRoom(t *testing.T, s Store) (ownerID int64, room model.Room) {
	t.Helper()
	ctx := context.Background()
	ownerID = seedOwner(t, s, "owner@example.com")
	d := seedDorm(t, s, ownerID, "Baan Suan")

	room = model.Room{DormID: d.ID, RoomNumber: "101", PriceMonthly: "4,000"}
	require.NoError(t, s.CreateRoom(ctx, ownerID, &room))

	eo, en, wo, wn := dec("3450.50"), dec("3520.75"), dec("1250.25"), dec("1280.50")
	when := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.RecordMeters(ctx, ownerID, room.ID, MeterUpdate{
		ElectricityOld: &eo, ElectricityNew: &en,
		WaterOld: &wo, WaterNew: &wn,
		ReadingDate: &when,
	})
	require.NoError(t, err)
	return ownerID, room
}

func TestStore_BillVacantRoom(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	owner, room := billableRoom(t, s)

	_, err := s.PreviewBill(ctx, owner, room.ID, BillRequest{})
	assert.True(t, apperr.IsState(err))
	_, err = s.FinalizeBill(ctx, owner, room.ID, BillRequest{})
	assert.True(t, apperr.IsState(err))

	bills, err := s.ListBills(ctx, owner, room.ID)
	require.NoError(t, err)
	assert.Empty(t, bills)
}

func TestStore_FinalizeBillRollsOver(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	owner, room := billableRoom(t, s)
	_, err := s.MoveIn(ctx, owner, room.ID, occupancy.Tenant{Name: "Somchai"})
	require.NoError(t, err)

	preview, err := s.PreviewBill(ctx, owner, room.ID, BillRequest{})
	require.NoError(t, err)
	assert.Equal(t, "5071.38", preview.Total.StringFixed(2))

	bills, err := s.ListBills(ctx, owner, room.ID)
	require.NoError(t, err)
	assert.Empty(t, bills, "preview stores nothing")

	record, err := s.FinalizeBill(ctx, owner, room.ID, BillRequest{})
	require.NoError(t, err)
	assert.Equal(t, "4000.00", record.Rent.StringFixed(2))
	assert.Equal(t, "70.25", record.ElectricityUnits.StringFixed(2))
	assert.Equal(t, "526.88", record.ElectricityCost.StringFixed(2))
	assert.Equal(t, "30.25", record.WaterUnits.StringFixed(2))
	assert.Equal(t, "544.50", record.WaterCost.StringFixed(2))
	assert.Equal(t, "5071.38", record.Total.StringFixed(2))
	assert.Equal(t, "Somchai", record.TenantName)
	assert.Equal(t, string(parse.PeriodMonthly), record.RentPeriod)

	stored, err := s.GetRoom(ctx, owner, room.ID)
	require.NoError(t, err)
	assert.True(t, dec("3520.75").Equal(stored.ElectricityMeterOld))
	assert.True(t, dec("3520.75").Equal(stored.ElectricityMeterNew))
	assert.True(t, dec("1280.50").Equal(stored.WaterMeterOld))

	// Next cycle reads only the new meter values.
	elec, water := dec("3600.75"), dec("1290.50")
	next := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	second, err := s.FinalizeBill(ctx, owner, room.ID, BillRequest{ElectricityNew: &elec, WaterNew: &water, ReadingDate: &next})
	require.NoError(t, err)
	assert.Equal(t, "80.00", second.ElectricityUnits.StringFixed(2))
	assert.Equal(t, "10.00", second.WaterUnits.StringFixed(2))
	assert.Equal(t, "4780.00", second.Total.StringFixed(2))

	bills, err = s.ListBills(ctx, owner, room.ID)
	require.NoError(t, err)
	require.Len(t, bills, 2)
	assert.Equal(t, second.ID, bills[0].ID, "newest first")
}

func TestStore_FinalizeBillFailureLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	owner, room := billableRoom(t, s)
	_, err := s.MoveIn(ctx, owner, room.ID, occupancy.Tenant{Name: "Somchai"})
	require.NoError(t, err)

	lower := dec("3000")
	_, err = s.FinalizeBill(ctx, owner, room.ID, BillRequest{ElectricityNew: &lower})
	assert.True(t, apperr.IsValidation(err))

	bills, err := s.ListBills(ctx, owner, room.ID)
	require.NoError(t, err)
	assert.Empty(t, bills)
	stored, err := s.GetRoom(ctx, owner, room.ID)
	require.NoError(t, err)
	assert.True(t, dec("3450.50").Equal(stored.ElectricityMeterOld))
}

func TestStore_BillRent(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	owner := seedOwner(t, s, "owner@example.com")
	d := seedDorm(t, s, owner, "Baan Suan") // dorm monthly price is a range

	room := model.Room{DormID: d.ID, RoomNumber: "101"}
	require.NoError(t, s.CreateRoom(ctx, owner, &room))
	_, err := s.MoveIn(ctx, owner, room.ID, occupancy.Tenant{Name: "Somchai"})
	require.NoError(t, err)

	_, err = s.PreviewBill(ctx, owner, room.ID, BillRequest{})
	assert.True(t, apperr.IsValidation(err), "a price range cannot be billed")

	rent := dec("4200")
	bill, err := s.PreviewBill(ctx, owner, room.ID, BillRequest{Rent: &rent})
	require.NoError(t, err)
	assert.Equal(t, "4200.00", bill.Total.StringFixed(2))

	_, err = s.UpdateRoom(ctx, owner, room.ID, map[string]any{"price_daily": "350"})
	require.NoError(t, err)
	bill, err = s.PreviewBill(ctx, owner, room.ID, BillRequest{Period: parse.PeriodDaily})
	require.NoError(t, err)
	assert.Equal(t, "350.00", bill.Rent.StringFixed(2))
}
