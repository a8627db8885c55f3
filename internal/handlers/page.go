package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

const dashboardTemplate = "dashboard.html"

//go:embed templates/dashboard.html
var templatesFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templatesFS, "templates/"+dashboardTemplate))

type pageData struct {
	Title      string
	Fahrenheit bool
}

// dashboardPage serves the chart container and the unit toggle. The figure
// itself arrives over /ws.
func (h *Handler) dashboardPage(c *gin.Context) {
	c.HTML(http.StatusOK, dashboardTemplate, pageData{
		Title:      "Thermostat",
		Fahrenheit: h.services.Dashboard.View().Fahrenheit(),
	})
}
