package funnel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseTargetLeads(t *testing.T) {
	cases := map[string]int{
		"1000":                  1000,
		"  250 ":                250,
		"0":                     0,
		"":                      0,
		"abc":                   0,
		"-5":                    0,
		"+7":                    7,
		"12abc":                 12,
		"3.9":                   3,
		"-":                     0,
		"99999999999999999999":  0,
		"-99999999999999999999": 0,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseTargetLeads(in), "input %q", in)
	}
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, 0, Coerce(-1))
	assert.Equal(t, 0, Coerce(0))
	assert.Equal(t, 42, Coerce(42))
}

func TestGuardedFormatting(t *testing.T) {
	assert.Equal(t, "N/A", Undefined.String())
	assert.Equal(t, "N/A", Undefined.Format(0))
	assert.Equal(t, "4644.44", Defined(4644.4444).String())
	assert.Equal(t, "4644", Defined(4644.4444).Format(0))
	assert.Equal(t, 7.0, Undefined.Or(7))
	assert.Equal(t, 3.0, Defined(3).Or(7))
}

func TestGuardedMapSkipsUndefined(t *testing.T) {
	double := func(v float64) float64 { return v * 2 }
	assert.Equal(t, Undefined, Undefined.Map(double))
	assert.Equal(t, Defined(4), Defined(2).Map(double))
}

func TestGuardedJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Guarded `json:"a"`
		B Guarded `json:"b"`
	}{A: Defined(1.5), B: Undefined})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.5,"b":null}`, string(b))

	var decoded struct {
		A Guarded `json:"a"`
		B Guarded `json:"b"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, Defined(1.5), decoded.A)
	assert.Equal(t, Undefined, decoded.B)
}

func TestGuardedYAML(t *testing.T) {
	b, err := yaml.Marshal(map[string]Guarded{"a": Defined(2), "b": Undefined})
	require.NoError(t, err)
	assert.Contains(t, string(b), "a: 2")
	assert.Contains(t, string(b), "b: null")
}
