package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dorm-rental-backend/internal/auth"
	"dorm-rental-backend/internal/occupancy"
	"dorm-rental-backend/internal/store"
)

func TestRoomLifecycleAndBilling(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.register(t, "owner@example.com", auth.RoleOwner)
	dormID := ts.createDorm(t, owner, sunrise())

	w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/owner/dorms/%d/rooms", dormID), owner, gin.H{"room_number": "101", "floor": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	room := decode[RoomResponse](t, w)
	assert.Equal(t, occupancy.StatusVacant, room.Status)

	w = ts.do(t, http.MethodPost, fmt.Sprintf("/api/owner/dorms/%d/rooms", dormID), owner, gin.H{"room_number": "101"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodPost, fmt.Sprintf("/api/owner/dorms/%d/rooms", dormID), owner, gin.H{"room_number": "102", "price_monthly": "call us"})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	roomPath := fmt.Sprintf("/api/owner/rooms/%d", room.ID)

	w = ts.do(t, http.MethodPut, roomPath, owner, gin.H{"price_daily": "n/a"})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	w = ts.do(t, http.MethodPut, roomPath, owner, gin.H{"price_monthly": "฿4,000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, roomPath+"/bills/preview", owner, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "vacant rooms cannot be billed")

	w = ts.do(t, http.MethodPost, roomPath+"/move-in", owner, gin.H{"tenant_name": "Somchai", "move_in_date": "2025-01-15"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	room = decode[RoomResponse](t, w)
	assert.True(t, room.IsOccupied)
	assert.Equal(t, "Somchai", room.TenantName)

	w = ts.do(t, http.MethodPost, roomPath+"/move-in", owner, gin.H{"tenant_name": "Another"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/owner/dorms/%d/rooms/summary", dormID), owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, store.RoomSummary{Total: 1, Occupied: 1, Vacant: 0}, decode[store.RoomSummary](t, w))

	w = ts.do(t, http.MethodPut, roomPath+"/meters", owner, gin.H{
		"electricity_meter_old": 100, "electricity_meter_new": 90,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "new reading below old")

	w = ts.do(t, http.MethodPut, roomPath+"/meters", owner, gin.H{
		"electricity_meter_old": 100, "electricity_meter_new": 150.5,
		"water_meter_old": 20, "water_meter_new": 30,
		"meter_reading_date": "2025-02-01",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 4000 rent + 50.5 kWh * 7.5 + 10 m3 * 18
	w = ts.do(t, http.MethodPost, roomPath+"/bills/preview", owner, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	preview := decode[billPreview](t, w)
	assert.Equal(t, "4000.00", preview.Rent)
	assert.Equal(t, "378.75", preview.ElectricityCost)
	assert.Equal(t, "180.00", preview.WaterCost)
	assert.Equal(t, "4558.75", preview.Total)

	w = ts.do(t, http.MethodPost, roomPath+"/bills", owner, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bill := decode[BillResponse](t, w)
	assert.Equal(t, "4558.75", bill.Total)
	assert.Equal(t, "Somchai", bill.TenantName)
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.BillsFinalized))

	w = ts.do(t, http.MethodGet, roomPath, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	room = decode[RoomResponse](t, w)
	assert.True(t, room.ElectricityOld.Equal(room.ElectricityNew), "meters roll over")
	assert.Equal(t, "150.5", room.ElectricityOld.String())

	// Next cycle with a reading in the request body.
	w = ts.do(t, http.MethodPost, roomPath+"/bills", owner, gin.H{"electricity_meter_new": 160.5, "reading_date": "2025-03-01"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "4075.00", decode[BillResponse](t, w).Total)

	w = ts.do(t, http.MethodGet, roomPath+"/bills", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	bills := decode[[]BillResponse](t, w)
	require.Len(t, bills, 2)
	assert.Equal(t, "4075.00", bills[0].Total, "newest first")

	w = ts.do(t, http.MethodPost, roomPath+"/move-out", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[RoomResponse](t, w).IsOccupied)

	w = ts.do(t, http.MethodPost, roomPath+"/bills", owner, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 2.0, testutil.ToFloat64(ts.metrics.BillsFinalized))
}

func TestBillRequestValidation(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.register(t, "owner@example.com", auth.RoleOwner)
	body := sunrise()
	body["price_monthly"] = "4000-4500"
	dormID := ts.createDorm(t, owner, body)

	w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/owner/dorms/%d/rooms", dormID), owner, gin.H{"room_number": "A1"})
	require.Equal(t, http.StatusCreated, w.Code)
	roomPath := fmt.Sprintf("/api/owner/rooms/%d", decode[RoomResponse](t, w).ID)

	w = ts.do(t, http.MethodPost, roomPath+"/move-in", owner, gin.H{"tenant_name": "Malee"})
	require.Equal(t, http.StatusOK, w.Code)

	testCases := []struct {
		name  string
		body  gin.H
		want  int
		total string
	}{
		{"price range needs explicit rent", nil, http.StatusBadRequest, ""},
		{"explicit rent", gin.H{"rent": 4200}, http.StatusOK, "4200.00"},
		{"unknown period", gin.H{"rent_period": "weekly"}, http.StatusBadRequest, ""},
		{"period without a price", gin.H{"rent_period": "daily"}, http.StatusBadRequest, ""},
		{"bad date", gin.H{"rent": 4200, "reading_date": "yesterday"}, http.StatusBadRequest, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, roomPath+"/bills/preview", owner, tc.body)
			require.Equal(t, tc.want, w.Code, w.Body.String())
			if tc.total != "" {
				assert.Equal(t, tc.total, decode[billPreview](t, w).Total)
			}
		})
	}
}

func TestRoomsAreOwnerScoped(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice@example.com", auth.RoleOwner)
	bob := ts.register(t, "bob@example.com", auth.RoleOwner)
	dormID := ts.createDorm(t, alice, sunrise())

	w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/owner/dorms/%d/rooms", dormID), bob, gin.H{"room_number": "1"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPost, fmt.Sprintf("/api/owner/dorms/%d/rooms", dormID), alice, gin.H{"room_number": "1"})
	require.Equal(t, http.StatusCreated, w.Code)
	roomPath := fmt.Sprintf("/api/owner/rooms/%d", decode[RoomResponse](t, w).ID)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, roomPath, bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, roomPath+"/bills", bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, roomPath, bob, nil).Code)

	w = ts.do(t, http.MethodPut, roomPath, alice, gin.H{"room_type": "air_conditioner", "notes": "corner"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "corner", decode[RoomResponse](t, w).Notes)

	w = ts.do(t, http.MethodPut, roomPath, alice, gin.H{"room_type": "igloo"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, roomPath, alice, nil).Code)
}
