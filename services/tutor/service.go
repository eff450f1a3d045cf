package tutor

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/b-castleman/llm-tutor-knowledge-base/kb"
	"github.com/b-castleman/llm-tutor-knowledge-base/models"
	"github.com/b-castleman/llm-tutor-knowledge-base/services/retrieval"
)

var ErrNoLectureMaterial = errors.New("no lecture material is included")

// Completer sends an ordered conversation to the language model and returns
// the reply text.
type Completer interface {
	Complete(ctx context.Context, conversation models.Conversation) (string, error)
}

// Retriever answers top-k passage queries against the indexed corpus.
type Retriever interface {
	Query(ctx context.Context, text string, topK int) ([]retrieval.Passage, error)
}

// ExchangeRecorder persists completed rating exchanges.
type ExchangeRecorder interface {
	CreateExchange(exchange *models.Exchange) error
}

// Config names each optional knowledge layer explicitly. It is validated once
// at session construction; invalid combinations never reach the per-call
// paths.
type Config struct {
	StudentName   string
	LessonSubject string

	TopicsListIncluded        bool
	TopicDescriptionsIncluded bool
	LectureMaterialIncluded   bool
}

func (c Config) validate() error {
	if c.StudentName == "" {
		return fmt.Errorf("no student name is present")
	}
	if c.LessonSubject == "" {
		return fmt.Errorf("no lesson subject is present")
	}
	if c.TopicDescriptionsIncluded && !c.TopicsListIncluded {
		return fmt.Errorf("topic descriptions require a topics list")
	}
	if c.LectureMaterialIncluded && !c.TopicsListIncluded {
		return fmt.Errorf("lecture material requires a topics list")
	}
	return nil
}

// Dependencies are the session's collaborators. Completer is required.
// When Retriever is set the session selects relevance semantically; otherwise
// it falls back to keyword overlap. Exchanges and Matcher are optional.
type Dependencies struct {
	Completer Completer
	Retriever Retriever
	Exchanges ExchangeRecorder
	Matcher   Matcher
}

// Service is one tutoring session: a read-only knowledge base and corpus
// shared across exchanges, with no other state retained between calls.
type Service struct {
	cfg           Config
	knowledgeBase *models.KnowledgeBase
	corpus        *kb.Corpus
	completer     Completer
	selector      RelevanceSelector
	exchanges     ExchangeRecorder
}

func NewService(cfg Config, knowledgeBase *models.KnowledgeBase, corpus *kb.Corpus, deps Dependencies) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if deps.Completer == nil {
		return nil, fmt.Errorf("language model service is required")
	}
	if cfg.TopicsListIncluded && (knowledgeBase == nil || len(knowledgeBase.Topics) == 0) {
		return nil, fmt.Errorf("topics list is enabled but no topics are loaded")
	}
	if cfg.LectureMaterialIncluded && !knowledgeBase.HasLectureMaterial() {
		return nil, fmt.Errorf("lecture material is enabled but none is loaded")
	}

	var selector RelevanceSelector
	if cfg.LectureMaterialIncluded {
		if deps.Retriever != nil {
			if corpus == nil {
				return nil, fmt.Errorf("semantic relevance selection requires a built corpus")
			}
			selector = NewSemanticSelector(deps.Retriever, corpus)
		} else {
			matcher := deps.Matcher
			if matcher == nil {
				matcher = SubstringMatcher{}
			}
			selector = NewKeywordSelector(knowledgeBase, matcher)
		}
	}

	log.Printf("[INFO] Tutor session created for student %q on subject %q (topics=%t descriptions=%t lecture=%t)",
		cfg.StudentName, cfg.LessonSubject, cfg.TopicsListIncluded, cfg.TopicDescriptionsIncluded, cfg.LectureMaterialIncluded)

	return &Service{
		cfg:           cfg,
		knowledgeBase: knowledgeBase,
		corpus:        corpus,
		completer:     deps.Completer,
		selector:      selector,
		exchanges:     deps.Exchanges,
	}, nil
}

// selectRelevant runs the configured relevance strategy. Without lecture
// material the whole selection step is skipped, not merely empty.
func (s *Service) selectRelevant(ctx context.Context, question, answer string) ([]string, error) {
	if !s.cfg.LectureMaterialIncluded || s.selector == nil {
		return nil, nil
	}
	return s.selector.SelectRelevant(ctx, question, answer)
}
