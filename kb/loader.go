package kb

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/b-castleman/llm-tutor-knowledge-base/models"
)

const (
	TopicsListFile        = "topicsList.json"
	TopicDescriptionsFile = "topicsInformationList.json"
	LectureMaterialFile   = "lectureMaterial.json"
	GeneratedKeywordsFile = "generatedKeywords.json"
	LineMapFile           = "lineToInformation.json"
)

// LoadOptions selects which curated layers are read. The topics list is the
// anchor layer: both optional layers key their entries by its topic ids.
type LoadOptions struct {
	TopicsList        bool
	TopicDescriptions bool
	LectureMaterial   bool
}

// Load reads the curated knowledge base files from dir and cross-validates
// the enabled layers: a topic id present in any enabled layer must be present
// in every other enabled layer, otherwise the load fails.
func Load(dir string, opts LoadOptions) (*models.KnowledgeBase, error) {
	log.Printf("[INFO] Loading knowledge base from %s", dir)

	kb := &models.KnowledgeBase{}

	if opts.TopicsList {
		order, topics, err := loadTopicsList(filepath.Join(dir, TopicsListFile))
		if err != nil {
			return nil, err
		}
		kb.TopicOrder = order
		kb.Topics = topics
	}

	if opts.TopicDescriptions {
		if err := loadJSONFile(filepath.Join(dir, TopicDescriptionsFile), &kb.TopicDescriptions); err != nil {
			return nil, err
		}
	}

	if opts.LectureMaterial {
		if err := loadJSONFile(filepath.Join(dir, LectureMaterialFile), &kb.LectureMaterial); err != nil {
			return nil, err
		}
	}

	if err := validateLayers(kb, opts); err != nil {
		return nil, err
	}

	log.Printf("[INFO] Knowledge base loaded: %d topics, %d described, %d with lecture material",
		len(kb.Topics), len(kb.TopicDescriptions), len(kb.LectureMaterial))
	return kb, nil
}

// loadTopicsList decodes the topic map while preserving the declaration order
// of its keys. Corpus line numbering follows this order, so a plain
// map[string]string decode is not enough.
func loadTopicsList(path string) ([]string, map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	om := orderedmap.New[string, string]()
	if err := json.Unmarshal(data, &om); err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	var order []string
	topics := make(map[string]string, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		order = append(order, pair.Key)
		topics[pair.Key] = pair.Value
	}
	return order, topics, nil
}

func loadJSONFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func validateLayers(kb *models.KnowledgeBase, opts LoadOptions) error {
	if opts.TopicsList {
		for _, encoding := range kb.TopicOrder {
			if opts.TopicDescriptions {
				if _, ok := kb.TopicDescriptions[encoding]; !ok {
					return fmt.Errorf("topic %q is not present in %s", encoding, TopicDescriptionsFile)
				}
			}
			if opts.LectureMaterial {
				if _, ok := kb.LectureMaterial[encoding]; !ok {
					return fmt.Errorf("topic %q is not present in %s", encoding, LectureMaterialFile)
				}
			}
		}
	}

	// Reverse direction: the optional layers may not introduce topic ids the
	// topics list does not know about.
	if opts.TopicDescriptions {
		for _, encoding := range lo.Keys(kb.TopicDescriptions) {
			if _, ok := kb.Topics[encoding]; !ok {
				return fmt.Errorf("topic %q from %s is not present in %s", encoding, TopicDescriptionsFile, TopicsListFile)
			}
		}
	}
	if opts.LectureMaterial {
		for _, encoding := range lo.Keys(kb.LectureMaterial) {
			if _, ok := kb.Topics[encoding]; !ok {
				return fmt.Errorf("topic %q from %s is not present in %s", encoding, LectureMaterialFile, TopicsListFile)
			}
		}
	}
	return nil
}
