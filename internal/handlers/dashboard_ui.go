package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

const dashboardTitle = "Дашборд отдела подбора персонала"

// RenderDashboardHTML fills the template variables of the embedded dashboard page.
func RenderDashboardHTML(templateHTML, version string) string {
	result := strings.ReplaceAll(templateHTML, "{{.Title}}", dashboardTitle)
	result = strings.ReplaceAll(result, "{{.Version}}", version)
	return result
}

// HandleDashboard serves the embedded dashboard page.
func HandleDashboard(templateHTML []byte, version string) fiber.Handler {
	html := RenderDashboardHTML(string(templateHTML), version)
	return func(c fiber.Ctx) error {
		c.Set("Content-Type", "text/html; charset=utf-8")
		c.Set("Cache-Control", "no-cache")
		return c.SendString(html)
	}
}
