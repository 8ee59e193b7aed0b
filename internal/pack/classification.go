package pack

import (
	"fmt"
	"strings"
)

// Method records how a classification was reached.
type Method string

const (
	MethodTaxonomic       Method = "taxonomic"
	MethodBundleInherited Method = "bundle-inherited"
	MethodAIFallback      Method = "ai-fallback"
	MethodManual          Method = "manual"
)

// Alternate is a runner-up classification kept for audit.
type Alternate struct {
	Family     string  `json:"family"`
	Style      string  `json:"style,omitempty"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// Classification is the authoritative genre assignment for a pack.
type Classification struct {
	Family          string      `json:"family"`
	Style           string      `json:"style,omitempty"`
	Confidence      float64     `json:"confidence"`
	Method          Method      `json:"method"`
	Reasoning       []string    `json:"reasoning,omitempty"`
	MatchedKeywords []string    `json:"matched_keywords,omitempty"`
	Rules           []string    `json:"rules,omitempty"`
	Alternates      []Alternate `json:"alternates,omitempty"`
}

// IsZero reports whether the classification carries no family.
func (c *Classification) IsZero() bool {
	return c == nil || strings.TrimSpace(c.Family) == ""
}

// Label renders "Family / Style" for display.
func (c *Classification) Label() string {
	if c.IsZero() {
		return ""
	}
	if strings.TrimSpace(c.Style) == "" {
		return c.Family
	}
	return c.Family + " / " + c.Style
}

// Clone returns a deep copy so inherited results never share slices.
func (c *Classification) Clone() *Classification {
	if c == nil {
		return nil
	}
	out := *c
	out.Reasoning = append([]string(nil), c.Reasoning...)
	out.MatchedKeywords = append([]string(nil), c.MatchedKeywords...)
	out.Rules = append([]string(nil), c.Rules...)
	out.Alternates = append([]Alternate(nil), c.Alternates...)
	return &out
}

// AddReason appends a formatted reasoning step.
func (c *Classification) AddReason(format string, args ...any) {
	if c == nil {
		return
	}
	c.Reasoning = append(c.Reasoning, fmt.Sprintf(format, args...))
}

// ClampConfidence bounds v to [0,1].
func ClampConfidence(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
