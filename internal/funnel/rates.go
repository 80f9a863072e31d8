package funnel

// Conversion rates applied between consecutive stages.
const (
	RateLeadToReferred      = 0.1393
	RateReferredToArrived   = 0.4125
	RateArrivedToFirstShift = 0.666
	RateFirstShiftToAdapted = 0.227
)

// LeadCost is the price of one processed lead, in roubles.
const LeadCost = 41.8

// StageKey identifies a funnel stage.
type StageKey string

const (
	StageLeads      StageKey = "leads"
	StageReferred   StageKey = "referred"
	StageArrived    StageKey = "arrived"
	StageFirstShift StageKey = "first_shift"
	StageAdapted    StageKey = "adapted"
)

// stageDef describes one stage: the rate applies to the previous stage's count.
// The first stage has rate 1.
type stageDef struct {
	Key   StageKey
	Label string
	Rate  float64
}

var stages = [...]stageDef{
	{Key: StageLeads, Label: "Обработано лидов", Rate: 1},
	{Key: StageReferred, Label: "Направлено на трудоустройство", Rate: RateLeadToReferred},
	{Key: StageArrived, Label: "Доехало до места работы", Rate: RateReferredToArrived},
	{Key: StageFirstShift, Label: "Вышло в 1-ю смену", Rate: RateArrivedToFirstShift},
	{Key: StageAdapted, Label: "Адаптировалось", Rate: RateFirstShiftToAdapted},
}

// StageCount is the number of stages in the funnel.
const StageCount = len(stages)

// Transition is one stage-to-stage conversion, for the breakdown chart.
type Transition struct {
	From    StageKey `json:"from" yaml:"from"`
	To      StageKey `json:"to" yaml:"to"`
	Label   string   `json:"label" yaml:"label"`
	Rate    float64  `json:"rate" yaml:"rate"`
	Percent float64  `json:"percent" yaml:"percent"`
}

var transitionLabels = [...]string{
	"Лид → Направление",
	"Направление → Доехало",
	"Доехало → 1-я смена",
	"Смена → Адаптация",
}

// Breakdown returns the fixed stage-to-stage conversion rates in funnel order.
func Breakdown() []Transition {
	out := make([]Transition, 0, StageCount-1)
	for i := 1; i < StageCount; i++ {
		out = append(out, Transition{
			From:    stages[i-1].Key,
			To:      stages[i].Key,
			Label:   transitionLabels[i-1],
			Rate:    stages[i].Rate,
			Percent: round2(stages[i].Rate * 100),
		})
	}
	return out
}

// Label returns the display label for a stage key, or the key itself when unknown.
func Label(key StageKey) string {
	for _, s := range stages {
		if s.Key == key {
			return s.Label
		}
	}
	return string(key)
}
