package narrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	apperrors "trade-planner/internal/errors"
	"trade-planner/internal/models"
	"trade-planner/pkg/utils"
)

const narratorSystemPrompt = `You are a trading analyst writing plan rationales.
Given structured facts about a multi-timeframe setup, write 2-3 plain sentences
explaining why the plan qualifies. State only the provided facts. Do not invent
indicator values, do not give financial advice, do not mention that you are a model.`

// LLMNarrator asks an OpenAI chat model for the rationale and falls
// back to the template narrator when the call fails.
type LLMNarrator struct {
	client   *openai.Client
	model    string
	fallback *TemplateNarrator
	retry    utils.RetryConfig
	logger   zerolog.Logger
}

// NewLLMNarrator creates an LLM-backed narrator.
func NewLLMNarrator(apiKey, model string, logger zerolog.Logger) *LLMNarrator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &LLMNarrator{
		client:   openai.NewClient(apiKey),
		model:    model,
		fallback: NewTemplateNarrator(),
		retry:    utils.DefaultRetryConfig(),
		logger:   logger,
	}
}

func (l *LLMNarrator) Name() string {
	return "llm"
}

func (l *LLMNarrator) Narrate(ctx context.Context, in models.RationaleInputs) (string, error) {
	text, err := utils.RetryWithResult(ctx, l.retry, func() (string, error) {
		return l.complete(ctx, buildPrompt(in))
	})
	if err != nil {
		narrErr := apperrors.NewNarrationError("openai", err)
		l.logger.Warn().Err(narrErr).Str("symbol", in.Symbol).Msg("llm narration failed, using template")
		return l.fallback.Narrate(ctx, in)
	}
	return strings.TrimSpace(text), nil
}

func (l *LLMNarrator) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: l.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: narratorSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildPrompt(in models.RationaleInputs) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Symbol: %s\nTrade type: %s\nDirection: %s\n", in.Symbol, in.TradeType, in.Direction)
	fmt.Fprintf(&b, "Higher tier (%s): trend %s, EMA20 slope %+.2f%%\n", in.Higher.Timeframe, in.Higher.TrendBias, in.Higher.EMA20Slope)
	fmt.Fprintf(&b, "Middle tier (%s): momentum %s, RSI %.1f\n", in.Middle.Timeframe, in.Middle.MomentumBias, in.Middle.RSI)
	fmt.Fprintf(&b, "Lower tier (%s): entry trigger %t\n", in.Lower.Timeframe, in.Lower.TriggerFor(in.Direction))

	b.WriteString("Edges:\n")
	for _, e := range in.Edges {
		state := "no"
		if e.Applied {
			state = "yes"
		}
		if e.NotApplicable() {
			state = "n/a"
		}
		fmt.Fprintf(&b, "- %s: %s (%s)\n", e.Name, state, e.Detail)
	}

	return b.String()
}
