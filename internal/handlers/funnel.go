package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/seuros/hirefunnel/internal/dashboard"
	"github.com/seuros/hirefunnel/internal/funnel"
	"github.com/seuros/hirefunnel/internal/history"
	"github.com/seuros/hirefunnel/internal/httpx"
	"github.com/seuros/hirefunnel/internal/logging"
)

// Dashboard serves the funnel API. It holds only read-only defaults;
// every request computes its own result.
type Dashboard struct {
	defaultLeads  int
	defaultPeriod history.Period
	history       history.Source
}

// NewDashboard creates the funnel API handlers.
func NewDashboard(defaultLeads int, defaultPeriod history.Period, src history.Source) *Dashboard {
	if src == nil {
		src = history.Sample
	}
	return &Dashboard{
		defaultLeads:  funnel.Coerce(defaultLeads),
		defaultPeriod: defaultPeriod,
		history:       src,
	}
}

// Register mounts the API routes on the router.
func (d *Dashboard) Register(r fiber.Router) {
	r.Get("/api/funnel", d.HandleFunnel)
	r.Get("/api/funnel/breakdown", HandleBreakdown)
	r.Get("/api/history", d.HandleHistory)
}

// View builds the dashboard projection for a raw input value. A missing value
// uses the configured default; a present but invalid one is coerced to 0.
func (d *Dashboard) View(rawLeads string, present bool, period history.Period) dashboard.View {
	leads := d.defaultLeads
	if present {
		leads = funnel.ParseTargetLeads(rawLeads)
	}
	return dashboard.Build(funnel.Input{TargetLeads: leads}, period, d.history)
}

// Period parses a period value, falling back to the configured default.
func (d *Dashboard) Period(raw string) (history.Period, error) {
	return history.ParsePeriod(raw, d.defaultPeriod)
}

// HandleFunnel → GET /api/funnel?target_leads=N&period=month
func (d *Dashboard) HandleFunnel(c fiber.Ctx) error {
	period, err := d.Period(httpx.QueryString(c, "period", ""))
	if err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, err.Error())
	}

	view := d.View(c.Query("target_leads"), httpx.HasQuery(c, "target_leads"), period)

	logging.L().Debug("funnel computed",
		zap.String("rid", httpx.RID(c)),
		zap.String("ip", httpx.ClientIP(c)),
		zap.Int("target_leads", view.Funnel.TargetLeads),
		zap.Int("adapted", view.Funnel.Adapted()),
		zap.String("period", string(period)))

	return httpx.JSON(c, fiber.StatusOK, view)
}

// HandleBreakdown → GET /api/funnel/breakdown
func HandleBreakdown(c fiber.Ctx) error {
	return httpx.JSON(c, fiber.StatusOK, fiber.Map{
		"data": funnel.Breakdown(),
	})
}

// HandleHistory → GET /api/history
func (d *Dashboard) HandleHistory(c fiber.Ctx) error {
	resp := HistoryResponse{
		Data: d.history.Months(),
	}
	if r, ok := d.history.(reloadedSource); ok {
		at := r.LoadedAt()
		resp.UpdatedAt = &at
	}
	return httpx.JSON(c, fiber.StatusOK, resp)
}
