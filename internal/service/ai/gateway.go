// Package ai adapts an OpenAI-compatible completion endpoint (LM Studio)
// into the synchronous gateway the deliberation orchestrator consumes.
package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"council-chamber/internal/config"
)

// Service performs single-shot text completions. It is stateless; each
// call is bounded by the configured timeout and never retried.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the gateway by compiling a prompt chain around the
// configured chat model.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile completion chain: %w", err)
	}

	return &Service{chatModel: chatModel, cfg: cfg, chain: runnable}, nil
}

// Complete runs one completion with the persona fragment as system prompt.
// maxTokens <= 0 selects the configured default budget.
func (s *Service) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = s.cfg.MaxTokens
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	response, err := s.chain.Invoke(ctx,
		map[string]any{"system": system, "query": user},
		compose.WithChatModelOption(model.WithMaxTokens(maxTokens)),
	)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	log.Printf("[ai] completion ok, model=%s, length=%d", s.cfg.Model, len(response.Content))
	return response.Content, nil
}
