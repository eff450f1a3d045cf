package keywords

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/invopop/jsonschema"

	"github.com/b-castleman/llm-tutor-knowledge-base/kb"
	"github.com/b-castleman/llm-tutor-knowledge-base/models"
)

const synthesizerSystemPrompt = "You are a keyword generator. Your job is to generate keywords that students might use about certain topics when discussing them so that information can be retrieved."

type RecordKeywordsInput struct {
	Keywords []string `json:"keywords" jsonschema:"required,description=Exhaustive list of keywords students might use when discussing this lecture material"`
}

// Service synthesizes retrieval keywords for each subtopic with one model
// call per subtopic. Results are cached to the generated-keywords file so the
// synthesis runs once per lecture-material revision.
type Service struct {
	client        *anthropic.Client
	lessonSubject string
}

func NewService(anthropicAPIKey, lessonSubject string) (*Service, error) {
	if anthropicAPIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required for keyword synthesis")
	}
	client := anthropic.NewClient(option.WithAPIKey(anthropicAPIKey))
	return &Service{client: &client, lessonSubject: lessonSubject}, nil
}

// SynthesizeAll returns the keyword lists for every subtopic, reading the
// cache at cachePath when present and generating then saving it otherwise.
func (s *Service) SynthesizeAll(ctx context.Context, knowledgeBase *models.KnowledgeBase, cachePath string) (kb.GeneratedKeywords, error) {
	if _, err := os.Stat(cachePath); err == nil {
		log.Printf("[INFO] Using cached keywords from %s", cachePath)
		return kb.LoadGeneratedKeywords(cachePath)
	}

	generated := make(kb.GeneratedKeywords)
	for _, encoding := range knowledgeBase.TopicOrder {
		generated[encoding] = make(map[string][]string)
		for _, subtopic := range knowledgeBase.LectureMaterial[encoding] {
			log.Printf("[INFO] Synthesizing keywords for subtopic %q", subtopic.Name)
			keywords, err := s.synthesize(ctx, knowledgeBase.Topics[encoding], subtopic.Name, subtopic.Information)
			if err != nil {
				return nil, fmt.Errorf("failed to synthesize keywords for subtopic %q: %w", subtopic.Name, err)
			}
			generated[encoding][subtopic.Name] = keywords
		}
	}

	if err := kb.SaveGeneratedKeywords(cachePath, generated); err != nil {
		return nil, err
	}
	log.Printf("[INFO] Saved generated keywords to %s", cachePath)
	return generated, nil
}

func (s *Service) synthesize(ctx context.Context, topicTitle, subtopicName, information string) ([]string, error) {
	prompt := fmt.Sprintf(
		"You are creating information about the subtopic called %q, a subtopic of the topic %q, which is a part of the lesson subject %q. "+
			"Record the keywords with the record_keywords tool, or output them in the format [<keyword 1>, <keyword 2>,...] with nothing else. "+
			"Please create an exhaustive keyword list for the following lecture material:\n\n%s",
		subtopicName, topicTitle, s.lessonSubject, information)

	response, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.ModelClaude4Sonnet20250514,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: synthesizerSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Tools: []anthropic.ToolUnionParam{
			{
				OfTool: &anthropic.ToolParam{
					Name:        "record_keywords",
					Description: anthropic.String("Record the generated keyword list for a subtopic"),
					InputSchema: recordKeywordsSchema(),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call Anthropic API: %w", err)
	}

	var replyText string
	for _, block := range response.Content {
		switch block := block.AsAny().(type) {
		case anthropic.ToolUseBlock:
			if block.Name != "record_keywords" {
				continue
			}
			var input RecordKeywordsInput
			if err := json.Unmarshal([]byte(block.JSON.Input.Raw()), &input); err != nil {
				return nil, fmt.Errorf("failed to parse record_keywords input: %w", err)
			}
			return normalizeKeywords(input.Keywords), nil
		case anthropic.TextBlock:
			replyText += block.Text
		}
	}

	// The model answered in plain text; fall back to the bracket-list parse.
	keywords, err := parseBracketList(replyText)
	if err != nil {
		return nil, err
	}
	return normalizeKeywords(keywords), nil
}

func recordKeywordsSchema() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(RecordKeywordsInput{})
	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
	}
}

func parseBracketList(text string) ([]string, error) {
	start := strings.Index(text, "[")
	end := strings.Index(text, "]")
	if start < 0 || end < 0 || end <= start {
		return nil, fmt.Errorf("reply contained no keyword list: %q", text)
	}
	return strings.Split(text[start+1:end], ","), nil
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" {
			out = append(out, keyword)
		}
	}
	return out
}
