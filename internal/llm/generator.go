package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const (
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 30 * time.Second

	agentName        = "career-assistant"
	agentInstruction = "You are a helpful AI career assistant. Follow the task " +
		"in the user message exactly. When the task asks for JSON, return only " +
		"valid JSON with no explanations, markdown, or text around it."
)

// TextGenerator is the generative-text collaborator every analysis
// component depends on. Tests substitute stubs.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator runs prompts through a Gemini-backed agent. Each call
// gets its own short-lived session; nothing is shared between requests.
type GeminiGenerator struct {
	runner   *runner.Runner
	sessions session.Service
	logger   *zap.Logger
	timeout  time.Duration
}

// NewGeminiGenerator builds the agent, its runner and an in-memory session
// service. model may be empty to use the default.
func NewGeminiGenerator(ctx context.Context, apiKey, modelName string, logger *zap.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if modelName == "" {
		modelName = defaultModel
	}

	model, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}

	assistant, err := llmagent.New(llmagent.Config{
		Name:        agentName,
		Model:       model,
		Description: "Resume and career analysis",
		Instruction: agentInstruction,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	sessions := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        agentName,
		Agent:          assistant,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &GeminiGenerator{
		runner:   r,
		sessions: sessions,
		logger:   logger,
		timeout:  defaultTimeout,
	}, nil
}

// Generate sends a single prompt through the agent and returns its final
// textual response. The call is bounded by the generator's timeout.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	created, err := g.sessions.Create(ctx, &session.CreateRequest{
		AppName:   agentName,
		UserID:    "api",
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create agent session: %w", err)
	}
	defer func() {
		delErr := g.sessions.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   created.Session.AppName(),
			UserID:    created.Session.UserID(),
			SessionID: created.Session.ID(),
		})
		if delErr != nil {
			g.logger.Warn("failed to delete agent session", zap.Error(delErr))
		}
	}()

	stream := g.runner.Run(ctx, created.Session.UserID(), created.Session.ID(), &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return "", fmt.Errorf("agent stream error: %w", err)
		}
		if event != nil && event.IsFinalResponse() && len(event.Content.Parts) > 0 {
			output = event.Content.Parts[0].Text
		}
	}
	if output == "" {
		return "", errors.New("empty agent response")
	}
	return output, nil
}
