package tutor

import (
	"context"
	"strings"
	"testing"

	"github.com/b-castleman/llm-tutor-knowledge-base/models"
)

type nopCompleter struct{}

func (nopCompleter) Complete(context.Context, models.Conversation) (string, error) {
	return "", nil
}

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()
	knowledgeBase := testKnowledgeBase()
	knowledgeBase.TopicDescriptions = map[string]string{
		"T1": "How biological neurons work.",
		"T2": "Early artificial neurons.",
	}
	service, err := NewService(cfg, knowledgeBase, nil, Dependencies{Completer: nopCompleter{}})
	if err != nil {
		t.Fatalf("failed to create test service: %v", err)
	}
	return service
}

func TestPersonaPromptVariants(t *testing.T) {
	base := Config{StudentName: "Blake", LessonSubject: "History of AI"}

	tests := []struct {
		name        string
		cfg         Config
		contains    []string
		notContains []string
	}{
		{
			name:        "no knowledge layers",
			cfg:         base,
			contains:    []string{"Athena", "Blake", "History of AI"},
			notContains: []string{"Neurons", "description"},
		},
		{
			name: "topics list only",
			cfg: func() Config {
				c := base
				c.TopicsListIncluded = true
				return c
			}(),
			contains:    []string{`"Neurons", "Perceptrons"`},
			notContains: []string{"description"},
		},
		{
			name: "topics and descriptions",
			cfg: func() Config {
				c := base
				c.TopicsListIncluded = true
				c.TopicDescriptionsIncluded = true
				return c
			}(),
			contains: []string{
				`"Neurons", "Perceptrons"`,
				`has the description: "How biological neurons work."`,
			},
		},
		{
			// Per-exchange relevance turns carry the content instead.
			name: "lecture material supersedes summaries",
			cfg: func() Config {
				c := base
				c.TopicsListIncluded = true
				c.TopicDescriptionsIncluded = true
				c.LectureMaterialIncluded = true
				return c
			}(),
			contains:    []string{"Athena"},
			notContains: []string{`"Neurons", "Perceptrons"`, "description"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(t, tt.cfg)
			prompt := service.buildPersonaPrompt()

			for _, want := range tt.contains {
				if !strings.Contains(prompt, want) {
					t.Errorf("persona prompt missing %q:\n%s", want, prompt)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(prompt, unwanted) {
					t.Errorf("persona prompt should not contain %q:\n%s", unwanted, prompt)
				}
			}
		})
	}
}

func TestQuizConversationShape(t *testing.T) {
	service := newTestService(t, Config{
		StudentName:             "Blake",
		LessonSubject:           "History of AI",
		TopicsListIncluded:      true,
		LectureMaterialIncluded: true,
	})

	subtopic := models.Subtopic{Name: "Basics", Information: "Neurons have axons."}
	conversation := service.buildQuizConversation("Neurons", subtopic)

	if len(conversation) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(conversation))
	}
	if conversation[0].Role != models.RoleSystem {
		t.Errorf("expected system persona first, got %q", conversation[0].Role)
	}
	request := conversation[1]
	if request.Role != models.RoleUser {
		t.Errorf("expected user request second, got %q", request.Role)
	}
	for _, want := range []string{"three", "Basics", "Neurons", "select all that apply", "Neurons have axons."} {
		if !strings.Contains(request.Content, want) {
			t.Errorf("quiz request missing %q:\n%s", want, request.Content)
		}
	}
}

func TestRankingConversationOrdering(t *testing.T) {
	service := newTestService(t, Config{
		StudentName:             "Blake",
		LessonSubject:           "History of AI",
		TopicsListIncluded:      true,
		LectureMaterialIncluded: true,
	})

	materials := []string{"Neurons have axons.", "The perceptron was built in 1958."}
	conversation := service.buildRankingConversation("What is an axon?", "A neuron's output wire", materials)

	// Ranking persona, two relevance turns, then the question/answer to rate.
	if len(conversation) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(conversation))
	}
	if !strings.Contains(conversation[0].Content, "ranking system") {
		t.Errorf("first turn should be the ranking persona, got %q", conversation[0].Content)
	}
	for i := 1; i <= 2; i++ {
		if conversation[i].Role != models.RoleSystem {
			t.Errorf("turn %d should be a system relevance turn, got role %q", i, conversation[i].Role)
		}
		if !strings.Contains(conversation[i].Content, materials[i-1]) {
			t.Errorf("turn %d should carry material %q, got %q", i, materials[i-1], conversation[i].Content)
		}
	}
	final := conversation[len(conversation)-1]
	if final.Role != models.RoleUser {
		t.Errorf("final turn should be the user rating request, got role %q", final.Role)
	}
	for _, want := range []string{"What is an axon?", "A neuron's output wire", "1-5", "Do not include any other words"} {
		if !strings.Contains(final.Content, want) {
			t.Errorf("rating request missing %q:\n%s", want, final.Content)
		}
	}
}

func TestRankingConversationTopicSummaryPrecedesRelevance(t *testing.T) {
	service := newTestService(t, Config{
		StudentName:               "Blake",
		LessonSubject:             "History of AI",
		TopicsListIncluded:        true,
		TopicDescriptionsIncluded: true,
	})

	conversation := service.buildRankingConversation("Q", "A", []string{"material"})

	if len(conversation) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(conversation))
	}
	if !strings.Contains(conversation[1].Content, `"Neurons", "Perceptrons"`) {
		t.Errorf("second turn should be the topic summary, got %q", conversation[1].Content)
	}
	if !strings.Contains(conversation[2].Content, "material") {
		t.Errorf("relevance turn should follow the topic summary, got %q", conversation[2].Content)
	}
}

func TestExplanationConversationOrdering(t *testing.T) {
	service := newTestService(t, Config{
		StudentName:             "Blake",
		LessonSubject:           "History of AI",
		TopicsListIncluded:      true,
		LectureMaterialIncluded: true,
	})

	materials := []string{"Neurons have axons."}
	conversation := service.buildExplanationConversation("What is an axon?", "A wire", 3, materials)

	// Persona, relevance turn, quoted quiz exchange, closing instruction.
	if len(conversation) != 5 {
		t.Fatalf("expected 5 turns, got %d", len(conversation))
	}
	if conversation[0].Role != models.RoleSystem || !strings.Contains(conversation[0].Content, "Athena") {
		t.Errorf("first turn should be the persona, got %+v", conversation[0])
	}
	if !strings.Contains(conversation[1].Content, "Neurons have axons.") {
		t.Errorf("relevance turn should precede the quiz exchange, got %q", conversation[1].Content)
	}
	if conversation[2].Role != models.RoleAssistant || !strings.Contains(conversation[2].Content, "What is an axon?") {
		t.Errorf("third turn should quote the quiz question, got %+v", conversation[2])
	}
	if conversation[3].Role != models.RoleUser || conversation[3].Content != "A wire" {
		t.Errorf("fourth turn should quote the student answer, got %+v", conversation[3])
	}
	final := conversation[4]
	if final.Role != models.RoleSystem {
		t.Errorf("final turn should be the rating instruction, got role %q", final.Role)
	}
	for _, want := range []string{"3/5", "less than 75 words"} {
		if !strings.Contains(final.Content, want) {
			t.Errorf("rating instruction missing %q:\n%s", want, final.Content)
		}
	}
}

func TestExplanationConversationWithoutMaterials(t *testing.T) {
	service := newTestService(t, Config{StudentName: "Blake", LessonSubject: "History of AI"})

	conversation := service.buildExplanationConversation("Q", "A", 5, nil)
	if len(conversation) != 4 {
		t.Fatalf("expected 4 turns without relevance material, got %d", len(conversation))
	}
}
