package tutor

import (
	"context"
	"fmt"
	"log"

	"github.com/b-castleman/llm-tutor-knowledge-base/models"
)

// RateAnswerResult carries the internal rating and the explanation shown to
// the student.
type RateAnswerResult struct {
	Rating int    `json:"rating"`
	Reply  string `json:"reply"`
}

// RateAnswer runs one full exchange: relevance selection once, the internal
// ranking pass, rating extraction, then the explanation pass reusing the same
// relevance result. An unparseable rating is fatal for the exchange.
func (s *Service) RateAnswer(ctx context.Context, question, answer string) (*RateAnswerResult, error) {
	log.Printf("[INFO] Rating answer for student %q", s.cfg.StudentName)

	relevantMaterial, err := s.selectRelevant(ctx, question, answer)
	if err != nil {
		return nil, fmt.Errorf("relevance selection failed: %w", err)
	}
	log.Printf("[INFO] Relevance selection produced %d materials", len(relevantMaterial))

	rankingConversation := s.buildRankingConversation(question, answer, relevantMaterial)
	rankingReply, err := s.completer.Complete(ctx, rankingConversation)
	if err != nil {
		return nil, fmt.Errorf("ranking pass failed: %w", err)
	}

	rating, err := ExtractRating(rankingReply)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Extracted rating %d/5", rating)

	explanationConversation := s.buildExplanationConversation(question, answer, rating, relevantMaterial)
	explanationReply, err := s.completer.Complete(ctx, explanationConversation)
	if err != nil {
		return nil, fmt.Errorf("explanation pass failed: %w", err)
	}

	if s.exchanges != nil {
		exchange := &models.Exchange{
			StudentName:   s.cfg.StudentName,
			LessonSubject: s.cfg.LessonSubject,
			Question:      question,
			Answer:        answer,
			Rating:        rating,
			TutorReply:    explanationReply,
		}
		if err := s.exchanges.CreateExchange(exchange); err != nil {
			return nil, fmt.Errorf("failed to persist exchange: %w", err)
		}
		log.Printf("[INFO] Persisted exchange with ID %d", exchange.ID)
	}

	log.Printf("[INFO] Answer rated %d/5 with explanation of %d characters", rating, len(explanationReply))
	return &RateAnswerResult{Rating: rating, Reply: explanationReply}, nil
}
