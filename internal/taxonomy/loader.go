package taxonomy

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"samplesort/internal/logging"
	"samplesort/internal/services"
)

// document is the on-disk taxonomy schema. YAML is a superset of JSON, so the
// same decoder reads both.
type document struct {
	Families      []familyDoc       `yaml:"families"`
	StyleSynonyms map[string]string `yaml:"style_synonyms"`
	Exclusions    []string          `yaml:"exclusions"`
}

type familyDoc struct {
	ID         string       `yaml:"id"`
	Name       string       `yaml:"name"`
	Styles     []string     `yaml:"styles"`
	Keywords   []keywordDoc `yaml:"keywords"`
	Confidence float64      `yaml:"confidence"`
	Exclusions []string     `yaml:"exclusions"`
}

// keywordDoc accepts either a bare string or a {term, weight} mapping.
type keywordDoc struct {
	Term   string
	Weight float64
}

func (k *keywordDoc) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		k.Term = node.Value
		k.Weight = DefaultKeywordWeight
		return nil
	case yaml.MappingNode:
		var raw struct {
			Term   string   `yaml:"term"`
			Weight *float64 `yaml:"weight"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		k.Term = raw.Term
		k.Weight = DefaultKeywordWeight
		if raw.Weight != nil {
			k.Weight = *raw.Weight
			if k.Weight == 0 {
				return fmt.Errorf("line %d: keyword %q weight must be within (0, %.1f]", node.Line, raw.Term, MaxKeywordWeight)
			}
		}
		return nil
	default:
		return fmt.Errorf("line %d: keyword must be a string or {term, weight}", node.Line)
	}
}

// Parse builds an Index from a YAML or JSON taxonomy document.
func Parse(data []byte) (*Index, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, services.Wrap(services.ErrValidation, "taxonomy", "parse", "invalid document", err)
	}
	families := make([]Family, 0, len(doc.Families))
	for _, fd := range doc.Families {
		keywords := make(map[string]float64, len(fd.Keywords))
		for _, kw := range fd.Keywords {
			term := strings.TrimSpace(kw.Term)
			if term == "" {
				continue
			}
			keywords[term] = kw.Weight
		}
		families = append(families, Family{
			ID:         fd.ID,
			Name:       fd.Name,
			Styles:     fd.Styles,
			Keywords:   keywords,
			Exclusions: fd.Exclusions,
			Confidence: fd.Confidence,
		})
	}
	return New(families, doc.StyleSynonyms, doc.Exclusions)
}

// Load reads and parses a taxonomy document from path.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "taxonomy", "read", path, err)
	}
	return Parse(data)
}

// LoadOrDefault loads the taxonomy at path, substituting the built-in
// taxonomy when path is empty or the document cannot be used. It never fails.
func LoadOrDefault(path string, logger *slog.Logger) *Index {
	logger = logging.NewComponentLogger(logger, "taxonomy")
	path = strings.TrimSpace(path)
	if path == "" {
		logger.Debug("using built-in taxonomy", logging.String(logging.FieldEventType, "taxonomy_default"))
		return Default()
	}
	idx, err := Load(path)
	if err != nil {
		logging.WarnWithContext(logger, "taxonomy load failed; using built-in taxonomy", "taxonomy_load_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix the taxonomy document or unset paths.taxonomy_file"),
			logging.String(logging.FieldImpact, "packs are classified against the built-in genre families"),
		)
		return Default()
	}
	logger.Info("taxonomy loaded",
		logging.String(logging.FieldEventType, "taxonomy_loaded"),
		logging.String("path", path),
		logging.Int("families", idx.Len()),
	)
	return idx
}
