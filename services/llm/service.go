package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/b-castleman/llm-tutor-knowledge-base/models"
)

// Service sends ordered conversations to the chat model and returns the raw
// reply text. No retries happen at this layer; transport errors propagate.
type Service struct {
	llm       llms.Model
	modelName string
	timeout   time.Duration
}

// ModelName maps the tutor's model selector to a concrete chat model.
func ModelName(number int) (string, error) {
	switch number {
	case 3:
		return "gpt-3.5-turbo", nil
	case 4:
		return "gpt-4-0314", nil
	default:
		return "", fmt.Errorf("bad model number %d: must be 3 or 4", number)
	}
}

func NewService(apiKey string, modelNumber int, timeout time.Duration) (*Service, error) {
	modelName, err := ModelName(modelNumber)
	if err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithModel(modelName),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	log.Printf("[INFO] Language model service initialized with model %s", modelName)
	return &Service{llm: client, modelName: modelName, timeout: timeout}, nil
}

// Complete sends the conversation as-is, preserving turn order, and returns
// the model reply with newlines flattened to spaces.
func (s *Service) Complete(ctx context.Context, conversation models.Conversation) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	messageHistory := make([]llms.MessageContent, 0, len(conversation))
	for _, msg := range conversation {
		messageHistory = append(messageHistory, llms.TextParts(chatMessageType(msg.Role), msg.Content))
	}

	resp, err := s.llm.GenerateContent(ctx, messageHistory)
	if err != nil {
		return "", fmt.Errorf("failed to generate LLM response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	return strings.ReplaceAll(resp.Choices[0].Content, "\n", " "), nil
}

func chatMessageType(role string) llms.ChatMessageType {
	switch role {
	case models.RoleSystem:
		return llms.ChatMessageTypeSystem
	case models.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
