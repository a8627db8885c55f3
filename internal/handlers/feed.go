package handlers

import (
	"net/http"
	"strconv"

	"thermostat_dashboard/internal/models"

	"github.com/gin-gonic/gin"
)

const errLimitInvalid = "invalid 'limit'; use a positive integer"

// @Summary      Simulated telemetry
// @Description  Most recent simulator readings, oldest first, in the thermostat export format. Missing readings are -999.
// @Tags         telemetry
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of records"  minimum(1)  maximum(10000)
// @Success      200    {array}   map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /telemetry [get]
func (h *Handler) getTelemetry(c *gin.Context) {
	limit := 0
	if qs := c.Query("limit"); qs != "" {
		v, err := strconv.Atoi(qs)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
			return
		}
		limit = v
	}

	records, err := h.services.Feed.Records(c.Request.Context(), limit)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load telemetry", "telemetry_feed_failed", err, "limit", limit)
		return
	}
	if records == nil {
		records = []models.TelemetryRecord{}
	}
	c.JSON(http.StatusOK, records)
}
