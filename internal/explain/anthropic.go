package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"fincoach/internal/logger"
)

const systemPrompt = "You are a financial product explainer. Given a scored product " +
	"recommendation, write one short plain-English paragraph (2-3 sentences) telling the " +
	"user why this product suits them. Be concrete about the numbers you are given. " +
	"Never invent figures, never promise returns, never give tax or legal advice."

// AnthropicExplainer narrates recommendations with the Claude Messages
// API. The client reads ANTHROPIC_API_KEY from the environment.
type AnthropicExplainer struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicExplainer creates an explainer for the given model name.
func NewAnthropicExplainer(model string) *AnthropicExplainer {
	return &AnthropicExplainer{
		client: anthropic.NewClient(),
		model:  anthropic.Model(model),
	}
}

// Narrative asks the model for a one-paragraph explanation of the payload.
func (e *AnthropicExplainer) Narrative(ctx context.Context, payload Payload) (string, error) {
	prompt := buildPrompt(payload)

	resp, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     e.model,
		MaxTokens: 300,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		logger.Get().Warnw("Narrative generation failed", "product", payload.ProductName, "error", err)
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func buildPrompt(p Payload) string {
	var sb strings.Builder
	sb.WriteString("Product: ")
	sb.WriteString(p.ProductName)
	sb.WriteString(" (")
	sb.WriteString(string(p.ProductType))
	sb.WriteString(")\n")
	appendLine(&sb, "Expected annual return: %.2f%%", p.ExpectedReturn)
	appendLine(&sb, "Match score: %.2f out of 1.00", p.MatchScore)
	sb.WriteString("User risk tolerance: ")
	sb.WriteString(string(p.RiskTolerance))
	sb.WriteString("\n")
	if p.Allocation > 0 {
		appendLine(&sb, "Suggested monthly allocation: %.2f", p.Allocation)
	}
	if len(p.ReasoningFactors) > 0 {
		sb.WriteString("Scoring factors:\n")
		for _, f := range p.ReasoningFactors {
			sb.WriteString("- ")
			sb.WriteString(f)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func appendLine(sb *strings.Builder, format string, args ...any) {
	fmt.Fprintf(sb, format+"\n", args...)
}
