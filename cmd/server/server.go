package main

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/b-castleman/llm-tutor-knowledge-base/config"
	"github.com/b-castleman/llm-tutor-knowledge-base/db"
	"github.com/b-castleman/llm-tutor-knowledge-base/handlers"
	"github.com/b-castleman/llm-tutor-knowledge-base/kb"
	"github.com/b-castleman/llm-tutor-knowledge-base/services/llm"
	"github.com/b-castleman/llm-tutor-knowledge-base/services/retrieval"
	"github.com/b-castleman/llm-tutor-knowledge-base/services/tutor"
)

func main() {
	cfg := config.Load()

	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	knowledgeBase, err := kb.Load(cfg.SupervisorDir, kb.LoadOptions{
		TopicsList:        cfg.TopicsListIncluded,
		TopicDescriptions: cfg.TopicDescriptionsIncluded,
		LectureMaterial:   cfg.LectureMaterialIncluded,
	})
	if err != nil {
		log.Fatalf("Failed to load knowledge base: %v", err)
	}

	deps := tutor.Dependencies{}

	llmService, err := llm.NewService(cfg.OpenAIAPIKey, cfg.ModelNumber, cfg.RequestTimeout)
	if err != nil {
		log.Fatalf("Failed to initialize language model service: %v", err)
	}
	deps.Completer = llmService

	var corpus *kb.Corpus
	if cfg.LectureMaterialIncluded {
		// The corpus and keyword artifacts come from a prior indexcorpus run.
		corpus, err = kb.LoadCorpus(cfg.CorpusDir, cfg.SupervisorDir)
		if err != nil {
			log.Fatalf("Failed to load corpus (run indexcorpus first): %v", err)
		}

		generated, err := kb.LoadGeneratedKeywords(filepath.Join(cfg.SupervisorDir, kb.GeneratedKeywordsFile))
		if err != nil {
			log.Fatalf("Failed to load generated keywords (run indexcorpus first): %v", err)
		}
		generated.Apply(knowledgeBase)

		if cfg.PineconeAPIKey != "" {
			retrievalService, err := retrieval.NewService(cfg.PineconeAPIKey, cfg.OpenAIAPIKey, cfg.PineconeIndexName)
			if err != nil {
				log.Fatalf("Failed to initialize retrieval service: %v", err)
			}
			deps.Retriever = retrievalService
		} else {
			log.Printf("[INFO] PINECONE_API_KEY not set, using keyword relevance selection")
		}
	}

	var exchangeRepo *db.PostgresExchangeRepository
	if cfg.DatabaseURL != "" {
		exchangeRepo, err = db.NewPostgresExchangeRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize exchange database: %v", err)
		}
		defer exchangeRepo.Close()
		deps.Exchanges = exchangeRepo
	} else {
		log.Printf("[INFO] DB_URL not set, exchanges will not be persisted")
	}

	tutorService, err := tutor.NewService(tutor.Config{
		StudentName:               cfg.StudentName,
		LessonSubject:             cfg.LessonSubject,
		TopicsListIncluded:        cfg.TopicsListIncluded,
		TopicDescriptionsIncluded: cfg.TopicDescriptionsIncluded,
		LectureMaterialIncluded:   cfg.LectureMaterialIncluded,
	}, knowledgeBase, corpus, deps)
	if err != nil {
		log.Fatalf("Failed to create tutor session: %v", err)
	}
	tutorHandler := handlers.NewTutorHandler(tutorService)

	router := mux.NewRouter()

	router.Use(corsMiddleware)
	router.Use(jsonMiddleware)

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	tutorHandler.RegisterRoutes(router)
	if exchangeRepo != nil {
		handlers.NewExchangeHandler(exchangeRepo).RegisterRoutes(router)
	}

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")

	addr := ":" + cfg.Port
	fmt.Printf("Server starting on port %s\n", cfg.Port)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}
