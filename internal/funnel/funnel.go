// Package funnel computes the recruitment funnel: a target lead count run through
// fixed stage-to-stage conversion rates, with the cost figures derived from it.
//
// Everything here is a pure function of Input and the rate table.
package funnel

import "math"

// Input is the externally owned value the funnel is computed from.
type Input struct {
	TargetLeads int `json:"target_leads" yaml:"target_leads"`
}

// Stage is one row of the funnel.
type Stage struct {
	Key   StageKey `json:"key" yaml:"key"`
	Label string   `json:"label" yaml:"label"`
	Count int      `json:"count" yaml:"count"`
	// StageConversion is the fixed rate from the previous stage, in percent.
	StageConversion float64 `json:"stage_conversion" yaml:"stage_conversion"`
	// CumulativeConversion is Count relative to the first stage, in percent.
	CumulativeConversion Guarded `json:"cumulative_conversion" yaml:"cumulative_conversion"`
}

// CostMetrics are the money figures of a funnel run.
type CostMetrics struct {
	LeadCost       float64 `json:"lead_cost" yaml:"lead_cost"`
	TotalCost      float64 `json:"total_cost" yaml:"total_cost"`
	CostPerAdapted Guarded `json:"cost_per_adapted" yaml:"cost_per_adapted"`
}

// Result is the full output of Calculate.
type Result struct {
	TargetLeads int               `json:"target_leads" yaml:"target_leads"`
	Stages      [StageCount]Stage `json:"stages" yaml:"stages"`
	Costs       CostMetrics       `json:"costs" yaml:"costs"`
	// OverallEfficiency is adapted / leads in percent.
	OverallEfficiency Guarded `json:"overall_efficiency" yaml:"overall_efficiency"`
	// LeadsPerAdapted is how many leads it takes to get one adapted worker.
	LeadsPerAdapted Guarded `json:"leads_per_adapted" yaml:"leads_per_adapted"`
}

// Calculate runs the funnel. Negative input is treated as zero.
//
// Each stage is rounded on its own before feeding the next one; fractional
// remainders are not carried forward.
func Calculate(in Input) Result {
	leads := Coerce(in.TargetLeads)

	res := Result{TargetLeads: leads}
	count := leads
	for i, def := range stages {
		if i > 0 {
			count = roundHalfUp(float64(count) * def.Rate)
		}
		res.Stages[i] = Stage{
			Key:                  def.Key,
			Label:                def.Label,
			Count:                count,
			StageConversion:      round2(def.Rate * 100),
			CumulativeConversion: percentOf(count, leads),
		}
	}

	adapted := res.Adapted()
	total := float64(leads) * LeadCost
	res.Costs = CostMetrics{
		LeadCost:       LeadCost,
		TotalCost:      total,
		CostPerAdapted: safeDiv(total, float64(adapted)),
	}
	res.OverallEfficiency = percentOf(adapted, leads)
	res.LeadsPerAdapted = leadsPer(res.OverallEfficiency)
	return res
}

// Stage returns the stage with the given key.
func (r Result) Stage(key StageKey) (Stage, bool) {
	for _, s := range r.Stages {
		if s.Key == key {
			return s, true
		}
	}
	return Stage{}, false
}

// Counts returns the stage counts in funnel order.
func (r Result) Counts() []int {
	out := make([]int, len(r.Stages))
	for i, s := range r.Stages {
		out[i] = s.Count
	}
	return out
}

// Adapted is the count of the final stage.
func (r Result) Adapted() int {
	return r.Stages[StageCount-1].Count
}

func percentOf(part, whole int) Guarded {
	return safeDiv(float64(part), float64(whole)).Map(func(v float64) float64 {
		return round2(v * 100)
	})
}

// leadsPer turns a percentage into "one per N". Zero efficiency has no answer.
func leadsPer(efficiency Guarded) Guarded {
	if !efficiency.Defined {
		return Undefined
	}
	return safeDiv(100, efficiency.Value).Map(func(v float64) float64 {
		return float64(roundHalfUp(v))
	})
}

func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}

func round2(f float64) float64 { return math.Floor(f*100+0.5) / 100 }
