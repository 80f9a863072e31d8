package funnel

import (
	"encoding/json"
	"strconv"
)

// NotAvailable is how an undefined figure is displayed.
const NotAvailable = "N/A"

// Guarded is a derived figure whose denominator may be zero.
// When Defined is false, Value is always 0.
type Guarded struct {
	Value   float64
	Defined bool
}

// Undefined is the zero-denominator result.
var Undefined = Guarded{}

// Defined wraps a finite value.
func Defined(v float64) Guarded {
	return Guarded{Value: v, Defined: true}
}

// safeDiv divides a by b, returning Undefined when b is zero.
func safeDiv(a, b float64) Guarded {
	if b == 0 {
		return Undefined
	}
	return Defined(a / b)
}

// Map applies fn to a defined value and leaves undefined values alone.
func (g Guarded) Map(fn func(float64) float64) Guarded {
	if !g.Defined {
		return g
	}
	return Defined(fn(g.Value))
}

// Or returns the value, or def when undefined.
func (g Guarded) Or(def float64) float64 {
	if !g.Defined {
		return def
	}
	return g.Value
}

// Format renders the value with prec decimals, or N/A.
func (g Guarded) Format(prec int) string {
	if !g.Defined {
		return NotAvailable
	}
	return strconv.FormatFloat(g.Value, 'f', prec, 64)
}

func (g Guarded) String() string {
	return g.Format(2)
}

// MarshalJSON encodes an undefined value as null.
func (g Guarded) MarshalJSON() ([]byte, error) {
	if !g.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(g.Value)
}

// UnmarshalJSON accepts a number or null.
func (g *Guarded) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*g = Undefined
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*g = Defined(v)
	return nil
}

// MarshalYAML encodes an undefined value as null.
func (g Guarded) MarshalYAML() (any, error) {
	if !g.Defined {
		return nil, nil
	}
	return g.Value, nil
}
