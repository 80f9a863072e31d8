package history

import (
	"fmt"
	"strings"
)

// Period is the reporting period picked in the dashboard header.
// It is echoed back to the renderer and changes no numbers.
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
)

// Periods lists the selectable periods in display order.
var Periods = []Period{PeriodWeek, PeriodMonth, PeriodQuarter}

var periodLabels = map[Period]string{
	PeriodWeek:    "Неделя",
	PeriodMonth:   "Месяц",
	PeriodQuarter: "Квартал",
}

// Label returns the display label of the period.
func (p Period) Label() string {
	return periodLabels[p]
}

// ParsePeriod validates a period name. Empty input yields def.
func ParsePeriod(s string, def Period) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def, nil
	}
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period %q (want week, month or quarter)", s)
}
