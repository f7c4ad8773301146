package assistant

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/karangtaruna-pekunden/marketplace/pkg/errors"
	"github.com/karangtaruna-pekunden/marketplace/pkg/gemini"
	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
	"github.com/karangtaruna-pekunden/marketplace/pkg/metrics"
	"github.com/karangtaruna-pekunden/marketplace/pkg/types"
)

// Generator is the language model call the assistant relies on.
type Generator interface {
	GenerateContent(ctx context.Context, req gemini.GenerateRequest) (string, error)
}

// Answer is the /api/ai response body.
type Answer struct {
	Reply      string           `json:"reply"`
	Distance   *float64         `json:"distance"`
	Ongkir     *int64           `json:"ongkir"`
	View       *string          `json:"view"`
	NewHistory []gemini.Content `json:"newHistory"`
}

// Quote is the shipping estimate for a cart address. Nil fields mean unknown.
type Quote struct {
	Distance     *float64
	ShippingCost *int64
	MapURL       *string
}

// Service turns addresses into shipping signals via the language model.
type Service interface {
	Ask(ctx context.Context, prompt string, history []gemini.Content) (*Answer, error)
	Quote(ctx context.Context, address types.Address) Quote
}

type service struct {
	model       Generator
	logg        *logger.Logger
	metrics     *metrics.AssistantMetrics
	instruction string
	temperature float64
}

// NewService builds the assistant. model may be nil when no API key is configured; Ask then
// fails with a dependency error and Quote reports unknown shipping.
func NewService(model Generator, logg *logger.Logger, m *metrics.AssistantMetrics, rules Rules, temperature float64) (Service, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(rules.Origin) == "" {
		return nil, fmt.Errorf("shipping origin required")
	}
	return &service{
		model:       model,
		logg:        logg,
		metrics:     m,
		instruction: SystemInstruction(rules),
		temperature: temperature,
	}, nil
}

func (s *service) Ask(ctx context.Context, prompt string, history []gemini.Content) (*Answer, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prompt is required")
	}
	if s.model == nil {
		s.metrics.Inc(metrics.AssistantOutcomeError)
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "assistant not configured")
	}

	raw, err := s.generate(ctx, prompt, history)
	if err != nil {
		s.metrics.Inc(metrics.AssistantOutcomeError)
		return nil, err
	}

	signals := ParseSignals(raw)
	s.record(signals)

	newHistory := make([]gemini.Content, 0, len(history)+2)
	newHistory = append(newHistory, history...)
	newHistory = append(newHistory,
		gemini.TextContent(gemini.RoleUser, prompt),
		gemini.TextContent(gemini.RoleModel, raw),
	)

	return &Answer{
		Reply:      signals.Reply,
		Distance:   signals.Distance,
		Ongkir:     signals.ShippingCost,
		View:       signals.MapURL,
		NewHistory: newHistory,
	}, nil
}

func (s *service) Quote(ctx context.Context, address types.Address) Quote {
	prompt := address.Routing()
	if prompt == "" || s.model == nil {
		return Quote{}
	}

	raw, err := s.generate(ctx, prompt, nil)
	if err != nil {
		s.metrics.Inc(metrics.AssistantOutcomeError)
		depCtx := s.logg.WithDependency(ctx, metrics.DependencyGemini)
		s.logg.Warn(s.logg.WithField(depCtx, "error", err.Error()), "shipping quote unavailable")
		return Quote{}
	}

	signals := ParseSignals(raw)
	s.record(signals)
	return Quote{
		Distance:     signals.Distance,
		ShippingCost: signals.ShippingCost,
		MapURL:       signals.MapURL,
	}
}

func (s *service) generate(ctx context.Context, prompt string, history []gemini.Content) (string, error) {
	contents := make([]gemini.Content, 0, len(history)+1)
	contents = append(contents, history...)
	contents = append(contents, gemini.TextContent(gemini.RoleUser, prompt))

	raw, err := s.model.GenerateContent(ctx, gemini.GenerateRequest{
		SystemInstruction: s.instruction,
		Contents:          contents,
		Temperature:       s.temperature,
	})
	if err != nil {
		return "", err
	}
	raw = strings.TrimSpace(raw)
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{"prompt": prompt, "reply": raw}), "assistant reply")
	return raw, nil
}

func (s *service) record(signals Signals) {
	if signals.ShippingCost != nil {
		s.metrics.Inc(metrics.AssistantOutcomeQuoted)
		return
	}
	s.metrics.Inc(metrics.AssistantOutcomeNull)
}
