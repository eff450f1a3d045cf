package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DatabaseURL       string
	OpenAIAPIKey      string
	AnthropicAPIKey   string
	PineconeAPIKey    string
	PineconeIndexName string

	StudentName   string
	LessonSubject string
	ModelNumber   int

	TopicsListIncluded        bool
	TopicDescriptionsIncluded bool
	LectureMaterialIncluded   bool

	SupervisorDir  string
	CorpusDir      string
	RequestTimeout time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO] No .env file found, using environment variables")
	}

	return &Config{
		Port:              getenv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DB_URL"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		PineconeAPIKey:    os.Getenv("PINECONE_API_KEY"),
		PineconeIndexName: getenv("PINECONE_INDEX_NAME", "tutor-lecture-index"),
		StudentName:       getenv("STUDENT_NAME", "Blake"),
		LessonSubject:     getenv("LESSON_SUBJECT", "History of AI"),
		ModelNumber:       getenvInt("TUTOR_MODEL", 3),

		TopicsListIncluded:        getenvBool("TOPICS_LIST_INCLUDED", true),
		TopicDescriptionsIncluded: getenvBool("TOPIC_DESCRIPTIONS_INCLUDED", true),
		LectureMaterialIncluded:   getenvBool("LECTURE_MATERIAL_INCLUDED", true),

		SupervisorDir:  getenv("SUPERVISOR_DIR", "./SupervisorFiles"),
		CorpusDir:      getenv("CORPUS_DIR", "./CorpusSearch"),
		RequestTimeout: getenvDuration("REQUEST_TIMEOUT", 60*time.Second),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("[ERROR] Invalid boolean for %s: %q, using default %t", key, v, def)
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[ERROR] Invalid integer for %s: %q, using default %d", key, v, def)
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("[ERROR] Invalid duration for %s: %q, using default %s", key, v, def)
	}
	return def
}
