package taxonomy

import (
	"fmt"
	"sort"
	"strings"

	"samplesort/internal/services"
	"samplesort/internal/textutil"
)

const (
	// DefaultKeywordWeight applies when a keyword carries no explicit weight.
	DefaultKeywordWeight = 1.0
	// MaxKeywordWeight is the largest accepted keyword weight.
	MaxKeywordWeight = 1.5
)

// Family is a top-level genre grouping.
type Family struct {
	ID         string
	Name       string
	Styles     []string
	Keywords   map[string]float64
	Exclusions []string
	Confidence float64
}

// Term is a normalized keyword phrase and its weight.
type Term struct {
	Phrase string
	Weight float64
}

type entry struct {
	family     Family
	terms      []Term
	exclusions []string
	styles     []string
}

// Index is the immutable, searchable form of a taxonomy.
type Index struct {
	entries    []entry
	byID       map[string]int
	byName     map[string]int
	synonyms   map[string]string
	exclusions []string
}

// New validates families and builds an Index. Families are held in ID order.
// Synonyms map an alternate style spelling onto its canonical style name;
// exclusions are global terms that disqualify a text from taxonomic matching.
func New(families []Family, synonyms map[string]string, exclusions []string) (*Index, error) {
	if len(families) == 0 {
		return nil, services.Wrap(services.ErrValidation, "taxonomy", "build index", "no families defined", nil)
	}
	idx := &Index{
		byID:     make(map[string]int, len(families)),
		byName:   make(map[string]int, len(families)),
		synonyms: make(map[string]string, len(synonyms)),
	}
	sorted := append([]Family(nil), families...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, fam := range sorted {
		built, err := buildEntry(fam)
		if err != nil {
			return nil, err
		}
		if _, dup := idx.byID[built.family.ID]; dup {
			return nil, services.Wrap(services.ErrValidation, "taxonomy", "build index",
				fmt.Sprintf("duplicate family id %q", built.family.ID), nil)
		}
		idx.byID[built.family.ID] = len(idx.entries)
		idx.byName[strings.ToLower(built.family.Name)] = len(idx.entries)
		idx.entries = append(idx.entries, built)
	}
	for alias, canonical := range synonyms {
		alias = textutil.NormalizePhrase(alias)
		canonical = strings.TrimSpace(canonical)
		if alias == "" || canonical == "" {
			continue
		}
		idx.synonyms[alias] = canonical
	}
	idx.exclusions = normalizeTerms(exclusions)
	return idx, nil
}

func buildEntry(fam Family) (entry, error) {
	fam.ID = strings.TrimSpace(fam.ID)
	fam.Name = strings.TrimSpace(fam.Name)
	if fam.ID == "" {
		fam.ID = textutil.SanitizeToken(fam.Name)
	}
	if fam.Name == "" {
		return entry{}, services.Wrap(services.ErrValidation, "taxonomy", "build index",
			fmt.Sprintf("family %q has no name", fam.ID), nil)
	}
	if fam.Confidence <= 0 || fam.Confidence > 1 {
		fam.Confidence = 1
	}

	weights := make(map[string]float64, len(fam.Keywords))
	for keyword, weight := range fam.Keywords {
		if weight == 0 {
			weight = DefaultKeywordWeight
		}
		if weight < 0 || weight > MaxKeywordWeight {
			return entry{}, services.Wrap(services.ErrValidation, "taxonomy", "build index",
				fmt.Sprintf("family %q keyword %q weight %.2f outside (0, %.1f]", fam.ID, keyword, weight, MaxKeywordWeight), nil)
		}
		phrase := textutil.NormalizePhrase(keyword)
		if phrase == "" {
			continue
		}
		// Two spellings normalizing to the same phrase keep the larger weight.
		if weight > weights[phrase] {
			weights[phrase] = weight
		}
	}
	terms := make([]Term, 0, len(weights))
	for phrase, weight := range weights {
		terms = append(terms, Term{Phrase: phrase, Weight: weight})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Weight != terms[j].Weight {
			return terms[i].Weight > terms[j].Weight
		}
		return terms[i].Phrase < terms[j].Phrase
	})
	fam.Keywords = weights
	fam.Styles = append([]string(nil), fam.Styles...)
	fam.Exclusions = append([]string(nil), fam.Exclusions...)

	styles := make([]string, len(fam.Styles))
	for i, style := range fam.Styles {
		styles[i] = textutil.NormalizePhrase(style)
	}
	return entry{
		family:     fam,
		terms:      terms,
		exclusions: normalizeTerms(fam.Exclusions),
		styles:     styles,
	}, nil
}

func normalizeTerms(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if phrase := textutil.NormalizePhrase(v); phrase != "" {
			out = append(out, phrase)
		}
	}
	return out
}

// Families returns a copy of every family in ID order.
func (i *Index) Families() []Family {
	out := make([]Family, len(i.entries))
	for n, e := range i.entries {
		out[n] = e.family
	}
	return out
}

// Len returns the number of families.
func (i *Index) Len() int { return len(i.entries) }

// Family looks up a family by ID.
func (i *Index) Family(id string) (Family, bool) {
	n, ok := i.byID[strings.TrimSpace(id)]
	if !ok {
		return Family{}, false
	}
	return i.entries[n].family, true
}

// FamilyByName looks up a family by display name or ID, case-insensitively.
func (i *Index) FamilyByName(name string) (Family, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if n, ok := i.byName[key]; ok {
		return i.entries[n].family, true
	}
	if n, ok := i.byID[key]; ok {
		return i.entries[n].family, true
	}
	return Family{}, false
}

// Terms returns the normalized keyword terms of a family, heaviest first.
func (i *Index) Terms(id string) []Term {
	n, ok := i.byID[id]
	if !ok {
		return nil
	}
	return i.entries[n].terms
}

// FamilyExcluded reports whether the normalized text holds one of the
// family's exclusion terms.
func (i *Index) FamilyExcluded(id, text string) bool {
	n, ok := i.byID[id]
	if !ok {
		return false
	}
	for _, term := range i.entries[n].exclusions {
		if textutil.ContainsPhrase(text, term) {
			return true
		}
	}
	return false
}

// Excluded reports whether the normalized text holds a global exclusion term.
func (i *Index) Excluded(text string) bool {
	for _, term := range i.exclusions {
		if textutil.ContainsPhrase(text, term) {
			return true
		}
	}
	return false
}

// CanonicalStyle resolves a style spelling through the synonym table.
func (i *Index) CanonicalStyle(style string) string {
	trimmed := strings.TrimSpace(style)
	if canonical, ok := i.synonyms[textutil.NormalizePhrase(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// MatchStyle returns the first style of the family named in the normalized
// text, either directly or through a synonym. Longer style names win so
// "Deep House" beats "House".
func (i *Index) MatchStyle(familyID, text string) string {
	n, ok := i.byID[familyID]
	if !ok {
		return ""
	}
	e := i.entries[n]
	best, bestLen := "", 0
	for idx, phrase := range e.styles {
		if textutil.ContainsPhrase(text, phrase) && len(phrase) > bestLen {
			best, bestLen = e.family.Styles[idx], len(phrase)
		}
	}
	if best != "" {
		return best
	}
	aliases := make([]string, 0, len(i.synonyms))
	for alias := range i.synonyms {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		canonical := i.synonyms[alias]
		if !textutil.ContainsPhrase(text, alias) {
			continue
		}
		for _, style := range e.family.Styles {
			if strings.EqualFold(style, canonical) {
				return style
			}
		}
	}
	return ""
}
