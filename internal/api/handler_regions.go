package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dorm-rental-backend/internal/region"
)

func (h *Handler) ListProvinces(c *gin.Context) {
	c.JSON(http.StatusOK, region.Provinces())
}

// ListDistricts lists the districts of :id. Unknown provinces are 404.
func (h *Handler) ListDistricts(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if _, found := region.ProvinceByID(int(id)); !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "province not found"})
		return
	}
	c.JSON(http.StatusOK, region.Districts(int(id)))
}

// ListSubdistricts lists the subdistricts of :id. Unknown districts are 404.
func (h *Handler) ListSubdistricts(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if _, found := region.DistrictByID(int(id)); !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "district not found"})
		return
	}
	c.JSON(http.StatusOK, region.Subdistricts(int(id)))
}
