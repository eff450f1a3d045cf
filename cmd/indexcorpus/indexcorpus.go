package main

import (
	"context"
	"log"
	"path/filepath"

	"github.com/b-castleman/llm-tutor-knowledge-base/config"
	"github.com/b-castleman/llm-tutor-knowledge-base/kb"
	"github.com/b-castleman/llm-tutor-knowledge-base/services/keywords"
	"github.com/b-castleman/llm-tutor-knowledge-base/services/retrieval"
)

// indexcorpus is the one-time setup step: it synthesizes keywords for every
// subtopic, builds the flat corpus file together with its line map, and
// indexes the corpus into the retrieval backend. Rerun it whenever the
// lecture material changes (delete the generated keywords file first).
func main() {
	log.Printf("[INFO] Starting corpus indexing process")

	cfg := config.Load()

	if cfg.AnthropicAPIKey == "" {
		log.Fatal("[ERROR] ANTHROPIC_API_KEY environment variable is required")
	}
	if cfg.PineconeAPIKey == "" {
		log.Fatal("[ERROR] PINECONE_API_KEY environment variable is required")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Fatal("[ERROR] OPENAI_API_KEY environment variable is required")
	}

	knowledgeBase, err := kb.Load(cfg.SupervisorDir, kb.LoadOptions{
		TopicsList:        true,
		TopicDescriptions: cfg.TopicDescriptionsIncluded,
		LectureMaterial:   true,
	})
	if err != nil {
		log.Fatalf("[ERROR] Failed to load knowledge base: %v", err)
	}

	keywordService, err := keywords.NewService(cfg.AnthropicAPIKey, cfg.LessonSubject)
	if err != nil {
		log.Fatalf("[ERROR] Failed to initialize keyword service: %v", err)
	}

	ctx := context.Background()

	cachePath := filepath.Join(cfg.SupervisorDir, kb.GeneratedKeywordsFile)
	generated, err := keywordService.SynthesizeAll(ctx, knowledgeBase, cachePath)
	if err != nil {
		log.Fatalf("[ERROR] Failed to synthesize keywords: %v", err)
	}
	generated.Apply(knowledgeBase)

	corpus, err := kb.BuildCorpus(knowledgeBase, cfg.CorpusDir, cfg.SupervisorDir)
	if err != nil {
		log.Fatalf("[ERROR] Failed to build corpus: %v", err)
	}

	retrievalService, err := retrieval.NewService(cfg.PineconeAPIKey, cfg.OpenAIAPIKey, cfg.PineconeIndexName)
	if err != nil {
		log.Fatalf("[ERROR] Failed to initialize retrieval service: %v", err)
	}

	if err := retrievalService.Index(ctx, corpus); err != nil {
		log.Fatalf("[ERROR] Failed to index corpus: %v", err)
	}

	log.Printf("[INFO] Corpus indexing process completed successfully")
}
