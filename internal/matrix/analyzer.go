package matrix

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"samplesort/internal/pack"
)

const (
	// DefaultStyle fills entries whose classification has no style.
	DefaultStyle = "General"
	maxExamples  = 3
)

// Axis names a matrix dimension.
type Axis string

const (
	AxisFamily Axis = "family"
	AxisType   Axis = "type"
	AxisStyle  Axis = "style"
)

// Entry aggregates every pack sharing one family, type and style.
type Entry struct {
	Key             string   `json:"key"`
	Family          string   `json:"family"`
	Type            string   `json:"type"`
	Style           string   `json:"style"`
	PackIDs         []string `json:"pack_ids"`
	PackCount       int      `json:"pack_count"`
	TotalFiles      int      `json:"total_files"`
	AvgConfidence   float64  `json:"avg_confidence"`
	Examples        []string `json:"examples"`
	Functions       []string `json:"functions,omitempty"`
	Variants        []string `json:"variants,omitempty"`
	Contexts        []string `json:"contexts,omitempty"`
	Signals         []Signal `json:"signals,omitempty"`
	TaxonomySourced bool     `json:"taxonomy_sourced"`
	Discovered      bool     `json:"discovered"`

	confidenceSum float64
}

// Value returns the entry's label on axis.
func (e Entry) Value(axis Axis) string {
	switch axis {
	case AxisFamily:
		return e.Family
	case AxisType:
		return e.Type
	case AxisStyle:
		return e.Style
	default:
		return ""
	}
}

// Matrix is the analyzed pack collection.
type Matrix struct {
	Entries    []Entry `json:"entries"`
	TotalFiles int     `json:"total_files"`
	PackCount  int     `json:"pack_count"`
}

// Empty reports whether the matrix holds no entries.
func (m *Matrix) Empty() bool {
	return m == nil || len(m.Entries) == 0
}

// Values returns the distinct labels on axis in sorted order.
func (m *Matrix) Values(axis Axis) []string {
	if m == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, e := range m.Entries {
		v := e.Value(axis)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

var titler = cases.Title(language.English)

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return titler.String(strings.ToLower(s))
}

// Key builds the entry key for a family, type and style.
func Key(family, kind, style string) string {
	return family + "|" + kind + "|" + style
}

// Analyze builds the matrix from the classified subset of packs.
func Analyze(packs []pack.Pack, classifications map[string]*pack.Classification) *Matrix {
	byKey := make(map[string]*Entry)
	signalSets := make(map[string]map[[2]string]Signal)
	for _, p := range packs {
		cls := classifications[p.ID]
		if cls.IsZero() {
			continue
		}
		family := titleCase(cls.Family)
		style := titleCase(cls.Style)
		if style == "" {
			style = DefaultStyle
		}
		kind := detectType(p)
		key := Key(family, kind, style)
		e, ok := byKey[key]
		if !ok {
			e = &Entry{Key: key, Family: family, Type: kind, Style: style}
			byKey[key] = e
			signalSets[key] = make(map[[2]string]Signal)
		}
		e.PackIDs = append(e.PackIDs, p.ID)
		e.PackCount++
		e.TotalFiles += p.TotalFiles()
		e.confidenceSum += cls.Confidence
		if len(e.Examples) < maxExamples {
			e.Examples = append(e.Examples, p.DisplayName())
		}
		switch cls.Method {
		case pack.MethodTaxonomic, pack.MethodBundleInherited:
			e.TaxonomySourced = true
		default:
			e.Discovered = true
		}
		for _, s := range extractSignals(p) {
			k := [2]string{s.Type, s.Value}
			if cur, ok := signalSets[key][k]; !ok || s.Confidence > cur.Confidence {
				signalSets[key][k] = s
			}
		}
	}

	m := &Matrix{}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e := byKey[k]
		e.AvgConfidence = e.confidenceSum / float64(e.PackCount)
		e.confidenceSum = 0
		for _, s := range sortedSignals(signalSets[k]) {
			e.Signals = append(e.Signals, s)
			switch s.Type {
			case SignalFunction:
				e.Functions = append(e.Functions, s.Value)
			case SignalVariant:
				e.Variants = append(e.Variants, s.Value)
			case SignalContext:
				e.Contexts = append(e.Contexts, s.Value)
			}
		}
		m.Entries = append(m.Entries, *e)
		m.TotalFiles += e.TotalFiles
		m.PackCount += e.PackCount
	}
	return m
}

func sortedSignals(set map[[2]string]Signal) []Signal {
	out := make([]Signal, 0, len(set))
	for _, s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Value < out[j].Value
	})
	return out
}
