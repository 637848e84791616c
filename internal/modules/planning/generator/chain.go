// Package generator runs prompts through a fixed-order chain of generator
// tiers and always answers with text, never an error.
package generator

import (
	"context"
	"errors"
	"time"

	"github.com/yungbote/palearn-backend/internal/modules/planning/extract"
	"github.com/yungbote/palearn-backend/internal/observability"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

// Invoker is one call to a text generator.
type Invoker interface {
	Invoke(ctx context.Context, prompt, model string) (string, error)
}

const (
	// UnavailablePayload is returned when no generator credential is configured.
	UnavailablePayload = `{"error": "GPT 서비스를 사용할 수 없습니다. API 키를 확인하세요."}`
	// FailurePrefix starts the diagnostic text returned when every tier failed.
	FailurePrefix = "GPT 호출 중 오류: "
)

type OutcomeKind int

const (
	Accepted OutcomeKind = iota
	Rejected
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "failed"
	}
}

type Outcome struct {
	Kind OutcomeKind
	Text string
	Err  error
}

type tier struct {
	name   string
	model  string
	label  string
	prompt func(string) string
	accept func(string) bool
}

var errNoMarker = errors.New("response carried no structured data")

type Chain struct {
	inv Invoker
	cfg Config
	log *logger.Logger
}

// NewChain builds a chain over inv. A nil inv makes every call short-circuit
// to UnavailablePayload.
func NewChain(inv Invoker, cfg Config, log *logger.Logger) *Chain {
	if cfg.TierTimeout <= 0 {
		cfg.TierTimeout = DefaultConfig().TierTimeout
	}
	return &Chain{inv: inv, cfg: cfg, log: log.With("service", "GeneratorChain")}
}

func (c *Chain) Available() bool { return c != nil && c.inv != nil }

// Generate tries the tiers in order and returns the first usable text. On
// total failure it returns FailurePrefix plus the last error.
func (c *Chain) Generate(ctx context.Context, prompt string, wantsSearch bool, obs Observer) string {
	if !c.Available() {
		notify(obs, Status{Phase: PhaseUnavailable})
		return UnavailablePayload
	}

	var last Outcome
	for _, t := range c.tiers(wantsSearch) {
		notify(obs, Status{Model: t.label, Phase: PhaseSearching})
		last = c.attempt(ctx, t, prompt)
		if last.Kind == Accepted {
			notify(obs, Status{Model: t.label, Phase: PhaseCompleted})
			return last.Text
		}
		c.log.Warn("generator tier did not produce usable output",
			"tier", t.name, "model", t.model, "outcome", last.Kind.String(), "error", last.Err)
		if ctx.Err() != nil {
			break
		}
	}
	notify(obs, Status{Phase: PhaseFailed})
	return FailurePrefix + errText(last.Err)
}

func (c *Chain) tiers(wantsSearch bool) []tier {
	if !wantsSearch {
		return []tier{{name: "normal", model: c.cfg.Models.Normal, label: c.cfg.Models.Normal}}
	}
	return []tier{
		{
			name:   "search_primary",
			model:  c.cfg.Models.SearchPrimary,
			label:  c.cfg.Models.SearchPrimary,
			accept: extract.HasMarker,
		},
		{
			name:   "search_fallback",
			model:  c.cfg.Models.SearchFallback,
			label:  c.cfg.Models.SearchFallback + " (fallback)",
			prompt: StrictPrompt,
		},
	}
}

func (c *Chain) attempt(ctx context.Context, t tier, prompt string) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{Kind: Failed, Err: err}
	}
	if t.prompt != nil {
		prompt = t.prompt(prompt)
	}
	tctx, cancel := context.WithTimeout(ctx, c.cfg.TierTimeout)
	defer cancel()
	tctx, span := observability.StartSpan(tctx, "generator."+t.name, "generator.model", t.model)

	start := time.Now()
	text, err := c.inv.Invoke(tctx, prompt, t.model)
	out := Outcome{Kind: Accepted, Text: text}
	switch {
	case err != nil:
		out = Outcome{Kind: Failed, Err: err}
	case t.accept != nil && !t.accept(text):
		out = Outcome{Kind: Rejected, Text: text, Err: errNoMarker}
	}
	observability.FinishSpan(span, out.Kind.String(), err)
	observability.Current().ObserveGenerator(t.name, out.Kind.String(), time.Since(start))
	c.log.Debug("generator tier finished", "tier", t.name, "model", t.model, "outcome", out.Kind.String(), "elapsed_ms", time.Since(start).Milliseconds())
	return out
}

// StrictPrompt wraps prompt in a more directive JSON-only instruction for the fallback tier.
func StrictPrompt(prompt string) string {
	return "당신은 반드시 JSON 형식으로만 응답해야 합니다. 질문이나 확인 없이 바로 JSON을 출력하세요.\n\n" +
		prompt +
		"\n\n⚠️ 중요: 위 요청에 대해 반드시 JSON 형식으로만 응답하세요. 추가 질문이나 설명 없이 오직 JSON만 출력합니다."
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
