package aifallback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"samplesort/internal/config"
	"samplesort/internal/logging"
	"samplesort/internal/pack"
	"samplesort/internal/services"
	"samplesort/internal/services/llm"
	"samplesort/internal/taxonomy"
)

// ErrCircuitOpen is returned while the breaker rejects calls after repeated
// failures.
var ErrCircuitOpen = errors.New("ai circuit open")

// Completer is the subset of the LLM client used by the adapter.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	HealthCheck(ctx context.Context) error
}

// LLMAdapter classifies packs with a chat completion model.
type LLMAdapter struct {
	client  Completer
	index   *taxonomy.Index
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

type settings struct {
	maxFailures uint32
	timeout     time.Duration
	logger      *slog.Logger
}

// Option customizes an LLMAdapter.
type Option func(*settings)

// WithBreaker sets the consecutive failure count that opens the circuit and
// how long it stays open.
func WithBreaker(maxFailures int, openFor time.Duration) Option {
	return func(s *settings) {
		if maxFailures > 0 {
			s.maxFailures = uint32(maxFailures)
		}
		if openFor > 0 {
			s.timeout = openFor
		}
	}
}

// WithLogger sets the adapter logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// NewLLMAdapter wraps client. Answers are validated against index.
func NewLLMAdapter(client Completer, index *taxonomy.Index, opts ...Option) *LLMAdapter {
	s := settings{maxFailures: 3, timeout: 30 * time.Second, logger: logging.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	logger := logging.NewComponentLogger(s.logger, "ai-fallback")
	a := &LLMAdapter{client: client, index: index, logger: logger}
	a.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ai-fallback",
		MaxRequests: 1,
		Timeout:     s.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.WarnWithContext(logger, "ai circuit state changed", "ai_circuit_state",
				logging.String("from", from.String()),
				logging.String("to", to.String()),
				logging.String(logging.FieldImpact, "ai batches are skipped while the circuit is open"),
			)
		},
	})
	return a
}

// NewFromConfig builds the adapter from the ai section of cfg. It returns a
// configuration error when AI is disabled or no API key is set.
func NewFromConfig(cfg *config.Config, index *taxonomy.Index, logger *slog.Logger) (*LLMAdapter, error) {
	if cfg == nil || !cfg.AIEnabled() {
		return nil, services.Wrap(services.ErrConfiguration, "classify", "ai fallback", "ai disabled or api key missing", nil)
	}
	llmCfg := cfg.GetLLM()
	client := llm.NewClient(llm.Config{
		APIKey:         llmCfg.APIKey,
		BaseURL:        llmCfg.BaseURL,
		Model:          llmCfg.Model,
		Referer:        llmCfg.Referer,
		Title:          llmCfg.Title,
		TimeoutSeconds: llmCfg.TimeoutSeconds,
	})
	return NewLLMAdapter(client, index,
		WithBreaker(cfg.AI.MaxFailures, time.Duration(cfg.AI.BreakerTimeoutSeconds)*time.Second),
		WithLogger(logger),
	), nil
}

// State reports the breaker state ("closed", "open" or "half-open").
func (a *LLMAdapter) State() string {
	return a.breaker.State().String()
}

// HealthCheck verifies the model endpoint answers.
func (a *LLMAdapter) HealthCheck(ctx context.Context) error {
	if err := a.client.HealthCheck(ctx); err != nil {
		return services.Wrap(services.ErrExternal, "ai", "health check", "model endpoint unavailable", err)
	}
	return nil
}

// ClassifyBatch sends packs in one request and returns one classification per
// pack in input order. Answers naming an unknown family, or missing from the
// response, come back with an empty family.
func (a *LLMAdapter) ClassifyBatch(ctx context.Context, packs []pack.Pack) ([]pack.Classification, error) {
	if len(packs) == 0 {
		return nil, nil
	}
	userPrompt, err := buildUserPrompt(a.index, packs)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "classify", "ai batch", "build prompt", err)
	}
	raw, err := a.breaker.Execute(func() (interface{}, error) {
		content, err := a.client.CompleteJSON(ctx, SystemPrompt, userPrompt)
		if err != nil {
			return nil, err
		}
		var resp BatchResponse
		if err := llm.DecodeLLMJSON(content, &resp); err != nil {
			return nil, err
		}
		if len(resp.Classifications) == 0 {
			return nil, errors.New("response holds no classifications")
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, services.Wrap(services.ErrExternal, "classify", "ai batch", "skipped", ErrCircuitOpen)
		}
		return nil, services.Wrap(services.ErrExternal, "classify", "ai batch", fmt.Sprintf("%d packs", len(packs)), err)
	}
	return a.mapAnswers(packs, raw.(BatchResponse)), nil
}

func (a *LLMAdapter) mapAnswers(packs []pack.Pack, resp BatchResponse) []pack.Classification {
	byID := make(map[string]Answer, len(resp.Classifications))
	for _, ans := range resp.Classifications {
		id := strings.TrimSpace(ans.ID)
		if _, seen := byID[id]; !seen {
			byID[id] = ans
		}
	}
	out := make([]pack.Classification, len(packs))
	for i, p := range packs {
		ans, ok := byID[p.ID]
		if !ok {
			a.logger.Debug("ai answer missing", logging.String(logging.FieldPackID, p.ID))
			continue
		}
		fam, ok := a.index.FamilyByName(ans.Family)
		if !ok {
			a.logger.Debug("ai answer names unknown family",
				logging.String(logging.FieldPackID, p.ID),
				logging.String("family", ans.Family),
			)
			continue
		}
		cls := pack.Classification{
			Family:     fam.Name,
			Style:      a.matchStyle(fam, ans.Style),
			Confidence: pack.ClampConfidence(ans.Confidence),
			Method:     pack.MethodAIFallback,
		}
		if reason := strings.TrimSpace(ans.Reason); reason != "" {
			cls.AddReason("ai: %s", reason)
		}
		out[i] = cls
	}
	return out
}

// matchStyle keeps a style only when it belongs to the family.
func (a *LLMAdapter) matchStyle(fam taxonomy.Family, style string) string {
	style = a.index.CanonicalStyle(style)
	if style == "" {
		return ""
	}
	for _, s := range fam.Styles {
		if strings.EqualFold(s, style) {
			return s
		}
	}
	return ""
}
