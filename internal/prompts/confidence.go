package prompts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Confidence is a score in [0,1] decoded leniently from model output:
// numbers are clamped, numeric strings are parsed then clamped, and
// percentages ("85%") are divided by 100. Anything else fails to decode.
type Confidence float64

func (c *Confidence) UnmarshalJSON(b []byte) error {
	v, err := ParseConfidence(b)
	if err != nil {
		return err
	}
	*c = Confidence(v)
	return nil
}

func (c Confidence) Float() float64 { return float64(c) }

// ParseConfidence applies the confidence policy to one raw JSON value.
func ParseConfidence(raw json.RawMessage) (float64, error) {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return 0, fmt.Errorf("confidence: missing value")
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, fmt.Errorf("confidence: %w", err)
		}
		return parseConfidenceString(s)
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return 0, fmt.Errorf("confidence: not a number: %s", string(b))
	}
	return ClampUnit(f), nil
}

func parseConfidenceString(s string) (float64, error) {
	s = strings.TrimSpace(s)
	percent := strings.HasSuffix(s, "%")
	if percent {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("confidence: not a number: %q", s)
	}
	if percent {
		f /= 100
	}
	return ClampUnit(f), nil
}

// ClampUnit bounds f to [0,1].
func ClampUnit(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
