package tutor

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"

	"github.com/b-castleman/llm-tutor-knowledge-base/kb"
	"github.com/b-castleman/llm-tutor-knowledge-base/models"
)

// RelevanceSelector returns the subtopic materials judged relevant to one
// question/answer pair. Results are deduplicated and ordered by corpus line
// number, never by relevance score: downstream prompt assembly relies on the
// stable first-encountered order.
type RelevanceSelector interface {
	SelectRelevant(ctx context.Context, question, answer string) ([]string, error)
}

// Matcher decides whether a subtopic keyword occurs in a piece of student
// text. Kept as an interface so a stricter tokenizer-based matcher can
// replace the substring scan without touching prompt assembly.
type Matcher interface {
	Matches(keyword, text string) bool
}

// SubstringMatcher is the default: case-insensitive substring containment.
type SubstringMatcher struct{}

func (SubstringMatcher) Matches(keyword, text string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(keyword))
}

// FuzzyMatcher tolerates typos and inflections in the student's wording.
type FuzzyMatcher struct{}

func (FuzzyMatcher) Matches(keyword, text string) bool {
	return fuzzy.MatchFold(keyword, text)
}

// KeywordSelector includes a subtopic's material when any of its keywords
// occurs in the question or the answer.
type KeywordSelector struct {
	knowledgeBase *models.KnowledgeBase
	matcher       Matcher
}

func NewKeywordSelector(knowledgeBase *models.KnowledgeBase, matcher Matcher) *KeywordSelector {
	return &KeywordSelector{knowledgeBase: knowledgeBase, matcher: matcher}
}

func (s *KeywordSelector) SelectRelevant(_ context.Context, question, answer string) ([]string, error) {
	var materials []string
	for _, subtopic := range s.knowledgeBase.Subtopics() {
		for _, keyword := range subtopic.Keywords {
			if s.matcher.Matches(keyword, question) || s.matcher.Matches(keyword, answer) {
				materials = append(materials, subtopic.Information)
				break
			}
		}
	}
	materials = lo.Uniq(materials)
	log.Printf("[INFO] Keyword relevance selection matched %d subtopics", len(materials))
	return materials, nil
}

// SemanticSelector queries the retrieval backend and maps returned passages
// back onto corpus lines by substring containment.
type SemanticSelector struct {
	retriever Retriever
	corpus    *kb.Corpus
}

func NewSemanticSelector(retriever Retriever, corpus *kb.Corpus) *SemanticSelector {
	return &SemanticSelector{retriever: retriever, corpus: corpus}
}

// SelectRelevant submits the question and the answer as two separate queries
// with top_k=3. If that pass fails it is retried exactly once with the two
// texts concatenated into a single query at top_k=4; a second failure
// propagates.
func (s *SemanticSelector) SelectRelevant(ctx context.Context, question, answer string) ([]string, error) {
	materials, err := s.queriesToInformation(ctx, []string{question, answer}, 3)
	if err != nil {
		log.Printf("[ERROR] Two-query retrieval failed, retrying with combined query: %v", err)
		materials, err = s.queriesToInformation(ctx, []string{question + answer}, 4)
		if err != nil {
			return nil, err
		}
	}
	log.Printf("[INFO] Semantic relevance selection matched %d corpus lines", len(materials))
	return materials, nil
}

func (s *SemanticSelector) queriesToInformation(ctx context.Context, queries []string, topK int) ([]string, error) {
	var lines []int
	for _, query := range queries {
		passages, err := s.retriever.Query(ctx, query, topK)
		if err != nil {
			return nil, err
		}
		for _, passage := range passages {
			lines = append(lines, s.corpus.LinesContaining(passage.Context)...)
		}
	}

	lines = lo.Uniq(lines)
	sort.Ints(lines)

	var materials []string
	for _, line := range lines {
		if information, ok := s.corpus.Information(line); ok {
			materials = append(materials, information)
		}
	}
	return lo.Uniq(materials), nil
}
