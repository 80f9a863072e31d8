// Package dashboard projects a funnel run into the shape the renderers consume.
package dashboard

import (
	"strconv"
	"strings"

	"github.com/seuros/hirefunnel/internal/funnel"
	"github.com/seuros/hirefunnel/internal/history"
)

// PeriodOption is one button of the period selector.
type PeriodOption struct {
	Value    history.Period `json:"value" yaml:"value"`
	Label    string         `json:"label" yaml:"label"`
	Selected bool           `json:"selected" yaml:"selected"`
}

// Card is one of the key metric tiles.
type Card struct {
	Key     string `json:"key" yaml:"key"`
	Title   string `json:"title" yaml:"title"`
	Value   string `json:"value" yaml:"value"`
	Caption string `json:"caption" yaml:"caption"`
}

// View is everything the dashboard shows for one input value.
type View struct {
	Period    history.Period      `json:"period" yaml:"period"`
	Periods   []PeriodOption      `json:"periods" yaml:"periods"`
	Funnel    funnel.Result       `json:"funnel" yaml:"funnel"`
	Cards     []Card              `json:"cards" yaml:"cards"`
	Breakdown []funnel.Transition `json:"breakdown" yaml:"breakdown"`
	History   []history.Month     `json:"history" yaml:"history"`
}

// Build computes the funnel for in and wraps it with display data.
// period is echoed back only.
func Build(in funnel.Input, period history.Period, src history.Source) View {
	res := funnel.Calculate(in)

	periods := make([]PeriodOption, 0, len(history.Periods))
	for _, p := range history.Periods {
		periods = append(periods, PeriodOption{Value: p, Label: p.Label(), Selected: p == period})
	}

	var months []history.Month
	if src != nil {
		months = src.Months()
	}
	if months == nil {
		months = []history.Month{}
	}

	return View{
		Period:    period,
		Periods:   periods,
		Funnel:    res,
		Cards:     Cards(res),
		Breakdown: funnel.Breakdown(),
		History:   months,
	}
}

// Cards renders the key metric tiles of a result.
func Cards(res funnel.Result) []Card {
	leadCost := FormatAmount(res.Costs.LeadCost, 1)
	per := res.LeadsPerAdapted.Format(0)

	return []Card{
		{
			Key:     "efficiency",
			Title:   "Конверсия из лида в адаптированного",
			Value:   FormatPercent(res.OverallEfficiency),
			Caption: "1 адаптированный на " + per + " лидов",
		},
		{
			Key:     "cost_per_adapted",
			Title:   "Стоимость адаптированного",
			Value:   FormatRoubles(res.Costs.CostPerAdapted, 0),
			Caption: leadCost + " ₽ за лид × " + per + " лидов",
		},
		{
			Key:     "adapted",
			Title:   "Всего адаптировано",
			Value:   strconv.Itoa(res.Adapted()),
			Caption: "За выбранный период",
		},
		{
			Key:     "total_cost",
			Title:   "Общие затраты",
			Value:   FormatAmount(res.Costs.TotalCost, 2) + " ₽",
			Caption: leadCost + " ₽ × " + strconv.Itoa(res.TargetLeads) + " лидов",
		},
	}
}

// FormatPercent renders a guarded percentage with two decimals, or N/A.
func FormatPercent(g funnel.Guarded) string {
	if !g.Defined {
		return funnel.NotAvailable
	}
	return g.Format(2) + "%"
}

// FormatRoubles renders a guarded amount in roubles, or N/A.
func FormatRoubles(g funnel.Guarded, prec int) string {
	if !g.Defined {
		return funnel.NotAvailable
	}
	return FormatAmount(g.Value, prec) + " ₽"
}

// FormatAmount groups thousands with spaces and trims a zero fraction:
// 41800 -> "41 800", 1234.5 -> "1 234.5".
func FormatAmount(v float64, maxPrec int) string {
	s := strconv.FormatFloat(v, 'f', maxPrec, 64)
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac {
		frac = strings.TrimRight(frac, "0")
	}

	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
