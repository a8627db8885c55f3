package handlers

import (
	"errors"
	"net/http"

	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/service"
	"thermostat_dashboard/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errInvalidUnit   = "invalid 'unit'; use C or F"
	errChartUpstream = "telemetry unavailable"
	errChartFailed   = "failed to build chart"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// ViewResponse is the current view state and the chart on display, if any.
type ViewResponse struct {
	View   models.ViewState `json:"view"`
	Render *models.Render   `json:"render,omitempty"`
	Figure *models.Figure   `json:"figure,omitempty"`
}

// CycleResponse is the outcome of a toggle or refresh. Figure is set only
// when the cycle reached the display.
type CycleResponse struct {
	View   models.ViewState   `json:"view"`
	Cycle  models.RenderCycle `json:"cycle"`
	Figure *models.Figure     `json:"figure,omitempty"`
}

func newCycleResponse(out service.CycleOutcome) CycleResponse {
	resp := CycleResponse{View: out.View, Cycle: out.Cycle}
	if out.Render != nil {
		fig := service.PlotlyFigure(out.Render.Chart)
		resp.Figure = &fig
	}
	return resp
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get view
// @Description  Current unit and the figure on display. render and figure are omitted until the first cycle renders.
// @Tags         view
// @Produce      json
// @Success      200  {object}  ViewResponse
// @Router       /api/v1/view [get]
func (h *Handler) getView(c *gin.Context) {
	resp := ViewResponse{View: h.services.Dashboard.View()}
	if cur, ok := h.services.Dashboard.Current(); ok {
		fig := service.PlotlyFigure(cur.Chart)
		resp.Render = &cur
		resp.Figure = &fig
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Toggle unit
// @Description  Flips between °C and °F and runs a render cycle. A failed cycle still answers 200; cycle.status tells the outcome and the previous chart stays on display.
// @Tags         view
// @Produce      json
// @Success      200  {object}  CycleResponse
// @Router       /api/v1/view/toggle [post]
func (h *Handler) toggleView(c *gin.Context) {
	out := h.services.Dashboard.Toggle(c.Request.Context())
	c.JSON(http.StatusOK, newCycleResponse(out))
}

// @Summary      Refresh chart
// @Description  Runs a render cycle for the current unit.
// @Tags         view
// @Produce      json
// @Success      200  {object}  CycleResponse
// @Router       /api/v1/view/refresh [post]
func (h *Handler) refreshView(c *gin.Context) {
	out := h.services.Dashboard.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, newCycleResponse(out))
}

// @Summary      Build chart
// @Description  Fetches telemetry and returns a figure for the given unit without touching the dashboard view.
// @Tags         chart
// @Produce      json
// @Param        unit  query     string  false  "Temperature unit"  Enums(C,F)  default(C)
// @Success      200   {object}  models.Figure
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/chart [get]
func (h *Handler) getChart(c *gin.Context) {
	unit, err := models.ParseUnit(c.Query("unit"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidUnit})
		return
	}

	spec, err := h.services.Charts.Build(c.Request.Context(), models.ViewState{Unit: unit})
	if err != nil {
		var fe *telemetry.FetchError
		var pe *telemetry.ParseError
		if errors.As(err, &fe) || errors.As(err, &pe) {
			h.logAndJSONError(c, http.StatusBadGateway, errChartUpstream, "chart_build_failed", err, "unit", unit)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errChartFailed, "chart_build_failed", err, "unit", unit)
		return
	}
	c.JSON(http.StatusOK, service.PlotlyFigure(spec))
}
