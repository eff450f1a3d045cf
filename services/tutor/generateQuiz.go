package tutor

import (
	"context"
	"fmt"
	"log"
)

// QuizQuestions is the generated question set for one subtopic.
type QuizQuestions struct {
	TopicTitle   string `json:"topic_title"`
	SubtopicName string `json:"subtopic_name"`
	Questions    string `json:"questions"`
}

// GenerateQuizQuestions walks every subtopic in corpus order and yields each
// generated question set as soon as the model produces it. The sequence is
// finite and non-restartable; a non-nil error from yield stops the walk.
// Requires lecture material.
func (s *Service) GenerateQuizQuestions(ctx context.Context, yield func(QuizQuestions) error) error {
	if !s.cfg.LectureMaterialIncluded {
		return ErrNoLectureMaterial
	}

	for _, encoding := range s.knowledgeBase.TopicOrder {
		topicTitle := s.knowledgeBase.Topics[encoding]
		for _, subtopic := range s.knowledgeBase.LectureMaterial[encoding] {
			log.Printf("[INFO] Generating quiz questions for subtopic %q", subtopic.Name)

			conversation := s.buildQuizConversation(topicTitle, subtopic)
			reply, err := s.completer.Complete(ctx, conversation)
			if err != nil {
				return fmt.Errorf("quiz generation failed for subtopic %q: %w", subtopic.Name, err)
			}

			if err := yield(QuizQuestions{
				TopicTitle:   topicTitle,
				SubtopicName: subtopic.Name,
				Questions:    reply,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}
