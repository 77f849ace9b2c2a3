// Package openai implements the reasoning-service collaborator on any
// OpenAI-compatible chat-completions API.
package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/entrhq/scout/pkg/browser"
	"github.com/entrhq/scout/pkg/llm"
	"github.com/entrhq/scout/pkg/llm/tokenizer"
	"github.com/entrhq/scout/pkg/logging"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o"

	// maxPromptTokens bounds the serialized context sent with each call.
	maxPromptTokens = 6000
)

// Reasoner implements llm.Reasoner against an OpenAI-compatible API.
type Reasoner struct {
	client    openai.Client
	model     string
	tokenizer *tokenizer.Tokenizer
	log       *logging.Logger
}

// Option configures a Reasoner.
type Option func(*Reasoner)

// WithModel sets the model used for reasoning calls.
func WithModel(model string) Option {
	return func(r *Reasoner) {
		if model != "" {
			r.model = model
		}
	}
}

// NewReasoner creates a reasoner. An empty apiKey falls back to the
// OPENAI_API_KEY environment variable; an empty baseURL uses the
// standard OpenAI endpoint.
func NewReasoner(apiKey, baseURL string, opts ...Option) (*Reasoner, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required (provide via parameter or OPENAI_API_KEY environment variable)")
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(baseURL))
	}

	log, _ := logging.NewLogger("llm")
	r := &Reasoner{
		client: openai.NewClient(clientOpts...),
		model:  DefaultModel,
		log:    log,
	}
	for _, opt := range opts {
		opt(r)
	}

	// Token counting is best effort; estimation covers initialization failure.
	tok, err := tokenizer.New()
	if err != nil {
		log.Warnf("tokenizer unavailable, using estimates: %v", err)
	} else {
		r.tokenizer = tok
	}
	return r, nil
}

// PlanExploration asks the model to prioritize navigation candidates.
func (r *Reasoner) PlanExploration(ctx context.Context, req llm.PlanRequest) (*llm.ExplorationPlan, error) {
	prompt := buildPlanPrompt(req)
	raw, err := r.complete(ctx, planSystemPrompt, prompt, nil)
	if err != nil {
		return nil, err
	}
	var plan llm.ExplorationPlan
	if err := llm.DecodeJSON(raw, &plan); err != nil {
		return nil, fmt.Errorf("plan response unusable: %w", err)
	}
	return &plan, nil
}

// AnalyzePage asks the model to analyze one visited page, attaching the
// screenshot when available.
func (r *Reasoner) AnalyzePage(ctx context.Context, req llm.InsightRequest) (*llm.PageInsight, error) {
	prompt := buildInsightPrompt(req)
	raw, err := r.complete(ctx, insightSystemPrompt, prompt, req.Screenshot)
	if err != nil {
		return nil, err
	}
	var insight llm.PageInsight
	if err := llm.DecodeJSON(raw, &insight); err != nil {
		return nil, fmt.Errorf("insight response unusable: %w", err)
	}
	return &insight, nil
}

// SummarizeExploration asks the model to synthesize an exploration run.
func (r *Reasoner) SummarizeExploration(ctx context.Context, req llm.SummaryRequest) (*llm.ExplorationSummary, error) {
	prompt := buildSummaryPrompt(req)
	raw, err := r.complete(ctx, summarySystemPrompt, prompt, nil)
	if err != nil {
		return nil, err
	}
	var summary llm.ExplorationSummary
	if err := llm.DecodeJSON(raw, &summary); err != nil {
		return nil, fmt.Errorf("summary response unusable: %w", err)
	}
	return &summary, nil
}

// InterpretInstruction asks the model to turn a natural-language
// instruction into a structured command.
func (r *Reasoner) InterpretInstruction(ctx context.Context, instruction string, pageContext *browser.PageContext) (*llm.Command, error) {
	prompt := buildInstructionPrompt(instruction, pageContext)
	raw, err := r.complete(ctx, instructionSystemPrompt, prompt, nil)
	if err != nil {
		return nil, err
	}
	var cmd llm.Command
	if err := llm.DecodeJSON(raw, &cmd); err != nil {
		return nil, fmt.Errorf("instruction response unusable: %w", err)
	}
	return &cmd, nil
}

// complete issues one chat completion, optionally attaching a PNG
// screenshot as an image part.
func (r *Reasoner) complete(ctx context.Context, system, user string, screenshot []byte) (string, error) {
	user = r.bound(user)

	var userMessage openai.ChatCompletionMessageParamUnion
	if len(screenshot) > 0 {
		dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(screenshot)
		userMessage = openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(user),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
		})
	} else {
		userMessage = openai.UserMessage(user)
	}

	resp, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(r.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			userMessage,
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// bound truncates a prompt to the configured token budget.
func (r *Reasoner) bound(prompt string) string {
	if r.tokenizer != nil {
		return r.tokenizer.Truncate(prompt, maxPromptTokens)
	}
	if tokenizer.EstimateTokens(prompt) <= maxPromptTokens {
		return prompt
	}
	return prompt[:maxPromptTokens*4]
}
