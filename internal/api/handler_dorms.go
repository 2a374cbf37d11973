package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"dorm-rental-backend/internal/apperr"
	"dorm-rental-backend/internal/geo"
	"dorm-rental-backend/internal/model"
	"dorm-rental-backend/internal/parse"
	"dorm-rental-backend/internal/region"
	"dorm-rental-backend/internal/store"
)

// dormRequest is shared by create and update. Nil fields are left unchanged.
type dormRequest struct {
	Name            *string          `json:"name"`
	Address         *string          `json:"address"`
	ProvinceID      *int             `json:"province_id"`
	DistrictID      *int             `json:"district_id"`
	SubdistrictID   *int             `json:"subdistrict_id"`
	PriceDaily      *string          `json:"price_daily"`
	PriceMonthly    *string          `json:"price_monthly"`
	PriceTerm       *string          `json:"price_term"`
	Deposit         *string          `json:"deposit"`
	WaterCost       *decimal.Decimal `json:"water_cost"`
	ElectricityCost *decimal.Decimal `json:"electricity_cost"`
	ContactPhone    *string          `json:"contact_phone"`
	Facilities      *[]string        `json:"facilities"`
	NearPlaces      *[]string        `json:"near_places"`
	Description     *string          `json:"description"`
	Latitude        *float64         `json:"latitude"`
	Longitude       *float64         `json:"longitude"`
}

// columns returns the changed columns and applies them to d.
func (r dormRequest) columns(d *model.Dorm) map[string]any {
	cols := map[string]any{}
	setString := func(col string, dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
			cols[col] = *dst
		}
	}
	setInt := func(col string, dst *int, v *int) {
		if v != nil {
			*dst = *v
			cols[col] = *v
		}
	}
	setDecimal := func(col string, dst *decimal.Decimal, v *decimal.Decimal) {
		if v != nil {
			*dst = *v
			cols[col] = *v
		}
	}
	setTags := func(col string, dst *string, v *[]string) {
		if v != nil {
			*dst = parse.JoinTags(*v)
			cols[col] = *dst
		}
	}

	setString("name", &d.Name, r.Name)
	setString("address", &d.Address, r.Address)
	setInt("province_id", &d.ProvinceID, r.ProvinceID)
	setInt("district_id", &d.DistrictID, r.DistrictID)
	setInt("subdistrict_id", &d.SubdistrictID, r.SubdistrictID)
	setString("price_daily", &d.PriceDaily, r.PriceDaily)
	setString("price_monthly", &d.PriceMonthly, r.PriceMonthly)
	setString("price_term", &d.PriceTerm, r.PriceTerm)
	setString("deposit", &d.Deposit, r.Deposit)
	setDecimal("water_cost", &d.WaterCost, r.WaterCost)
	setDecimal("electricity_cost", &d.ElectricityCost, r.ElectricityCost)
	setString("contact_phone", &d.ContactPhone, r.ContactPhone)
	setTags("facilities", &d.Facilities, r.Facilities)
	setTags("near_places", &d.NearPlaces, r.NearPlaces)
	setString("description", &d.Description, r.Description)
	if r.Latitude != nil {
		d.Latitude = r.Latitude
		cols["latitude"] = *r.Latitude
	}
	if r.Longitude != nil {
		d.Longitude = r.Longitude
		cols["longitude"] = *r.Longitude
	}
	return cols
}

// validateDorm checks a dorm as it would be stored.
func validateDorm(d model.Dorm) error {
	if d.Name == "" {
		return apperr.Validation("name is required")
	}
	prices := d.Prices()
	for _, period := range []parse.Period{parse.PeriodDaily, parse.PeriodMonthly, parse.PeriodTerm} {
		if _, err := parse.ParsePrice(prices.Get(period)); err != nil && !errors.Is(err, parse.ErrNoPrice) {
			return apperr.Validation("%s price: %v", period, err)
		}
	}
	if d.WaterCost.IsNegative() || d.ElectricityCost.IsNegative() {
		return apperr.Validation("utility rates cannot be negative")
	}
	if (d.Latitude == nil) != (d.Longitude == nil) {
		return apperr.Validation("latitude and longitude must be set together")
	}
	if d.HasLocation() && !(geo.Point{Lat: *d.Latitude, Lng: *d.Longitude}).Valid() {
		return apperr.Validation("coordinates are out of range")
	}
	return region.Validate(d.ProvinceID, d.DistrictID, d.SubdistrictID)
}

// locatedDorm lets the geo package measure dorms.
type locatedDorm struct {
	model.Dorm
}

func (d locatedDorm) Position() (geo.Point, bool) {
	if !d.HasLocation() {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *d.Latitude, Lng: *d.Longitude}, true
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperr.Validation("%s must be a non-negative integer", key)
	}
	return v, nil
}

func queryFloat(c *gin.Context, key string) (float64, bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, apperr.Validation("%s must be a number", key)
	}
	return v, true, nil
}

// ListDorms handles GET /api/dorms. Only approved dorms are listed. With lat and
// lng the result is sorted by distance and optionally limited to radius_km.
func (h *Handler) ListDorms(c *gin.Context) {
	var f store.DormFilter
	var err error
	if f.ProvinceID, err = queryInt(c, "province_id"); err != nil {
		respondError(c, err)
		return
	}
	if f.DistrictID, err = queryInt(c, "district_id"); err != nil {
		respondError(c, err)
		return
	}
	f.Query = c.Query("q")

	lat, hasLat, err := queryFloat(c, "lat")
	if err != nil {
		respondError(c, err)
		return
	}
	lng, hasLng, err := queryFloat(c, "lng")
	if err != nil {
		respondError(c, err)
		return
	}
	radius, _, err := queryFloat(c, "radius_km")
	if err != nil || radius < 0 {
		respondError(c, apperr.Validation("radius_km must be a non-negative number"))
		return
	}
	if hasLat != hasLng {
		respondError(c, apperr.Validation("lat and lng must be given together"))
		return
	}
	origin := geo.Point{Lat: lat, Lng: lng}
	if hasLat && !origin.Valid() {
		respondError(c, apperr.Validation("coordinates are out of range"))
		return
	}

	dorms, err := h.store.ListPublicDorms(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	if !hasLat {
		c.JSON(http.StatusOK, newDormResponses(dorms))
		return
	}

	located := make([]locatedDorm, 0, len(dorms))
	for _, d := range dorms {
		located = append(located, locatedDorm{d})
	}
	hits := geo.Within(located, origin, radius)
	out := make([]DormResponse, 0, len(hits))
	for _, hit := range hits {
		resp := newDormResponse(hit.Item.Dorm)
		dist := hit.DistanceKm
		resp.DistanceKm = &dist
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}

// GetDorm handles GET /api/dorms/:id for approved dorms.
func (h *Handler) GetDorm(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	d, err := h.store.GetPublicDorm(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDormResponse(d))
}

// ListOwnerDorms returns every dorm of the caller, including pending and rejected ones.
func (h *Handler) ListOwnerDorms(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	dorms, err := h.store.ListOwnerDorms(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDormResponses(dorms))
}

// GetOwnerDorm returns one of the caller's dorms.
func (h *Handler) GetOwnerDorm(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	d, err := h.store.GetDorm(c.Request.Context(), owner, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDormResponse(d))
}

// CreateDorm submits a new listing for review.
func (h *Handler) CreateDorm(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req dormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	d := model.Dorm{OwnerID: owner}
	req.columns(&d)
	if err := validateDorm(d); err != nil {
		respondError(c, err)
		return
	}
	if err := h.store.CreateDorm(c.Request.Context(), &d); err != nil {
		respondError(c, err)
		return
	}
	h.dormsChanged()
	c.JSON(http.StatusCreated, newDormResponse(d))
}

// UpdateDorm edits one of the caller's dorms. Review status is unaffected.
func (h *Handler) UpdateDorm(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	current, err := h.store.GetDorm(ctx, owner, id)
	if err != nil {
		respondError(c, err)
		return
	}
	cols := req.columns(&current)
	if err := validateDorm(current); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.store.UpdateDorm(ctx, owner, id, cols)
	if err != nil {
		respondError(c, err)
		return
	}
	h.dormsChanged()
	c.JSON(http.StatusOK, newDormResponse(updated))
}

// DeleteDorm removes one of the caller's dorms with its rooms and images.
func (h *Handler) DeleteDorm(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	h.deleteDorm(c, owner)
}

func (h *Handler) deleteDorm(c *gin.Context, owner int64) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	paths, err := h.store.DeleteDorm(c.Request.Context(), owner, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.uploads != nil {
		h.uploads.RemoveAll(paths)
	}
	h.dormsChanged()
	c.Status(http.StatusNoContent)
}
