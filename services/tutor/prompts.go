package tutor

import (
	"fmt"
	"strings"

	"github.com/b-castleman/llm-tutor-knowledge-base/models"
)

const questionCount = "three"

// buildPersonaPrompt composes the tutor persona incrementally from the
// configured knowledge layers. Full lecture material supersedes the topic
// summaries: its content is injected per-exchange as relevance turns instead.
func (s *Service) buildPersonaPrompt() string {
	var prompt strings.Builder
	prompt.WriteString(fmt.Sprintf(
		`You are a teacher named Athena, whose goal is to teach a student (named %s) about the lesson subject: %q. You should accurately and enthusiastically answer all questions or clarifications that the student has.`,
		s.cfg.StudentName, s.cfg.LessonSubject))

	if s.cfg.TopicsListIncluded && !s.cfg.LectureMaterialIncluded {
		prompt.WriteString("\nSpecifically, topics on this subject you are teaching include: ")
		prompt.WriteString(s.topicTitleList())
		prompt.WriteString(".")
	}

	if s.cfg.TopicDescriptionsIncluded && !s.cfg.LectureMaterialIncluded {
		for _, encoding := range s.knowledgeBase.TopicOrder {
			prompt.WriteString(fmt.Sprintf("\nThe topic titled %q has the description: %q.",
				s.knowledgeBase.Topics[encoding], s.knowledgeBase.TopicDescriptions[encoding]))
		}
	}

	return prompt.String()
}

func (s *Service) topicTitleList() string {
	titles := make([]string, 0, len(s.knowledgeBase.TopicOrder))
	for _, encoding := range s.knowledgeBase.TopicOrder {
		titles = append(titles, fmt.Sprintf("%q", s.knowledgeBase.Topics[encoding]))
	}
	return strings.Join(titles, ", ")
}

// buildQuizConversation assembles the quiz-generation prompt for one
// subtopic: persona turn, then a single user request bounded to that
// subtopic's material.
func (s *Service) buildQuizConversation(topicTitle string, subtopic models.Subtopic) models.Conversation {
	return models.NewConversation(
		models.Message{Role: models.RoleSystem, Content: s.buildPersonaPrompt()},
		models.Message{Role: models.RoleUser, Content: fmt.Sprintf(
			"Please create %s difficult questions within the subtopic, %s, within the topic %s about the lecture material. "+
				"All questions chosen should be of the type, select all that apply. "+
				"The questions may ONLY pertain to the following lecture material: \n\n%s",
			questionCount, subtopic.Name, topicTitle, subtopic.Information)},
	)
}

// buildRankingConversation assembles the internal ranking pass. Relevance
// turns land immediately before the final user turn; the optional topic
// summary stays ahead of them.
func (s *Service) buildRankingConversation(question, answer string, relevantMaterial []string) models.Conversation {
	rankingPersona := fmt.Sprintf(
		"You are a ranking system. You will be given a conversation between a teacher (named Athena) and a student (named %s) about %s, and then you will rank how accurate their response is.",
		s.cfg.StudentName, s.cfg.LessonSubject)

	qaQuery := fmt.Sprintf(
		"The question asked by the teacher was, %q.\nThe answer given by the student was, %q.\n"+
			"Based on the student's response to the teacher's question, rank the student's response quality and accuracy on an integer scale from 1-5. "+
			"Do not include any other words or tokens aside from the response quality.",
		question, answer)

	conversation := models.NewConversation(
		models.Message{Role: models.RoleSystem, Content: rankingPersona},
	)

	if s.cfg.TopicDescriptionsIncluded && !s.cfg.LectureMaterialIncluded {
		conversation.Append(models.Message{
			Role:    models.RoleSystem,
			Content: "Information on this subject you are teaching include: " + s.topicTitleList() + ".",
		})
	}

	conversation.Append(models.Message{Role: models.RoleUser, Content: qaQuery})
	conversation.InsertBeforeFinalUserTurn(relevanceTurns(relevantMaterial)...)
	return conversation
}

// buildExplanationConversation assembles the student-facing explanation pass.
// Relevance turns land ahead of the quoted quiz exchange and the closing
// rating-explanation instruction.
func (s *Service) buildExplanationConversation(question, answer string, rating int, relevantMaterial []string) models.Conversation {
	conversation := models.NewConversation(
		models.Message{Role: models.RoleSystem, Content: s.buildPersonaPrompt()},
		models.Message{Role: models.RoleAssistant, Content: "I will now proceed to quiz you.\n\nCheck all that apply: " + question},
		models.Message{Role: models.RoleUser, Content: answer},
		models.Message{Role: models.RoleSystem, Content: fmt.Sprintf(
			"Please proceed to respond to the student's answer. A third party rating of the student's answer was a %d/5. "+
				"Explain what about the answer was accurate or inaccurate as well as what can use improvement for a more complete knowledge, helping clear any misconceptions. "+
				"Please use less than 75 words in this response.", rating)},
	)
	conversation.InsertBeforeQuizExchange(relevanceTurns(relevantMaterial)...)
	return conversation
}

func relevanceTurns(materials []string) []models.Message {
	turns := make([]models.Message, 0, len(materials))
	for _, material := range materials {
		turns = append(turns, models.Message{
			Role:    models.RoleSystem,
			Content: fmt.Sprintf("Please note the following lecture material that may be related to this topic: %q.", material),
		})
	}
	return turns
}
