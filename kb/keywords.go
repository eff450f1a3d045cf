package kb

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/b-castleman/llm-tutor-knowledge-base/models"
)

// GeneratedKeywords caches the synthesized keyword lists, keyed by topic id
// and then subtopic name. Regenerate the file when the lecture material
// changes; the cache is never invalidated automatically.
type GeneratedKeywords map[string]map[string][]string

func LoadGeneratedKeywords(path string) (GeneratedKeywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read generated keywords: %w", err)
	}
	var gk GeneratedKeywords
	if err := json.Unmarshal(data, &gk); err != nil {
		return nil, fmt.Errorf("failed to parse generated keywords: %w", err)
	}
	return gk, nil
}

func SaveGeneratedKeywords(path string, gk GeneratedKeywords) error {
	data, err := json.Marshal(gk)
	if err != nil {
		return fmt.Errorf("failed to marshal generated keywords: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write generated keywords: %w", err)
	}
	return nil
}

// Apply copies the cached keyword lists onto the matching subtopics.
// Subtopics without a cached entry keep whatever keywords the lecture
// material file declared.
func (gk GeneratedKeywords) Apply(kb *models.KnowledgeBase) {
	applied := 0
	for encoding, subtopics := range kb.LectureMaterial {
		byName, ok := gk[encoding]
		if !ok {
			continue
		}
		for i := range subtopics {
			if keywords, ok := byName[subtopics[i].Name]; ok {
				subtopics[i].Keywords = keywords
				applied++
			}
		}
	}
	log.Printf("[INFO] Applied generated keywords to %d subtopics", applied)
}
