package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/b-castleman/llm-tutor-knowledge-base/config"
	"github.com/b-castleman/llm-tutor-knowledge-base/kb"
	"github.com/b-castleman/llm-tutor-knowledge-base/services/llm"
	"github.com/b-castleman/llm-tutor-knowledge-base/services/retrieval"
	"github.com/b-castleman/llm-tutor-knowledge-base/services/tutor"
)

type bankEntry struct {
	question string
	answer   string
}

var questionBank = []bankEntry{
	{
		question: "What characteristics are shared by both biological and artificial neurons? a) They both have dendrites b) Both can aggregate and process input values c) They both have axons d) Both can transmit outputs depending on certain criteria",
		answer:   "A, C: biological neurons have these properties and artificial neurons try to mimic them",
	},
}

// The driver walks a fixed question bank through three sessions of
// increasing knowledge-base depth and prints each tutor response as it
// arrives. Rate limiting is a simple sleep between exchanges.
func main() {
	cfg := config.Load()

	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	llmService, err := llm.NewService(cfg.OpenAIAPIKey, cfg.ModelNumber, cfg.RequestTimeout)
	if err != nil {
		log.Fatalf("Failed to initialize language model service: %v", err)
	}

	tutorNoKB, err := tutor.NewService(tutor.Config{
		StudentName:   cfg.StudentName,
		LessonSubject: cfg.LessonSubject,
	}, nil, nil, tutor.Dependencies{Completer: llmService})
	if err != nil {
		log.Fatalf("Failed to create no-KB session: %v", err)
	}

	partialKB, err := kb.Load(cfg.SupervisorDir, kb.LoadOptions{
		TopicsList:        true,
		TopicDescriptions: true,
	})
	if err != nil {
		log.Fatalf("Failed to load partial knowledge base: %v", err)
	}
	tutorPartialKB, err := tutor.NewService(tutor.Config{
		StudentName:               cfg.StudentName,
		LessonSubject:             cfg.LessonSubject,
		TopicsListIncluded:        true,
		TopicDescriptionsIncluded: true,
	}, partialKB, nil, tutor.Dependencies{Completer: llmService})
	if err != nil {
		log.Fatalf("Failed to create partial-KB session: %v", err)
	}

	fullKB, err := kb.Load(cfg.SupervisorDir, kb.LoadOptions{
		TopicsList:        true,
		TopicDescriptions: true,
		LectureMaterial:   true,
	})
	if err != nil {
		log.Fatalf("Failed to load full knowledge base: %v", err)
	}
	corpus, err := kb.LoadCorpus(cfg.CorpusDir, cfg.SupervisorDir)
	if err != nil {
		log.Fatalf("Failed to load corpus (run indexcorpus first): %v", err)
	}
	generated, err := kb.LoadGeneratedKeywords(filepath.Join(cfg.SupervisorDir, kb.GeneratedKeywordsFile))
	if err != nil {
		log.Fatalf("Failed to load generated keywords (run indexcorpus first): %v", err)
	}
	generated.Apply(fullKB)

	fullDeps := tutor.Dependencies{Completer: llmService}
	if cfg.PineconeAPIKey != "" {
		retrievalService, err := retrieval.NewService(cfg.PineconeAPIKey, cfg.OpenAIAPIKey, cfg.PineconeIndexName)
		if err != nil {
			log.Fatalf("Failed to initialize retrieval service: %v", err)
		}
		fullDeps.Retriever = retrievalService
	}
	tutorFullKB, err := tutor.NewService(tutor.Config{
		StudentName:               cfg.StudentName,
		LessonSubject:             cfg.LessonSubject,
		TopicsListIncluded:        true,
		TopicDescriptionsIncluded: true,
		LectureMaterialIncluded:   true,
	}, fullKB, corpus, fullDeps)
	if err != nil {
		log.Fatalf("Failed to create full-KB session: %v", err)
	}

	ctx := context.Background()

	for i, entry := range questionBank {
		if i > 0 {
			time.Sleep(15 * time.Second)
		}

		fmt.Printf("\n\nNew Question:\n")
		fmt.Printf("Question: %s\n", entry.question)
		fmt.Printf("Answer: %s\n\n", entry.answer)

		fmt.Println("Without KB:")
		rate(ctx, tutorNoKB, entry)

		fmt.Println("\nPartial KB:")
		rate(ctx, tutorPartialKB, entry)

		fmt.Println("\nFull KB:")
		rate(ctx, tutorFullKB, entry)
	}
}

func rate(ctx context.Context, session *tutor.Service, entry bankEntry) {
	result, err := session.RateAnswer(ctx, entry.question, entry.answer)
	if err != nil {
		log.Printf("[ERROR] Exchange failed: %v", err)
		return
	}
	fmt.Printf("Athena: %s\n", result.Reply)
}
