package kb

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/b-castleman/llm-tutor-knowledge-base/models"
)

const CorpusFile = "processedLectureMaterial.txt"

// Corpus is the flat, line-addressed serialization of every subtopic. Line
// numbers are 1-based and bijective with subtopics in traversal order; the
// retrieval backend indexes the same file, so the file and the line map are
// only ever produced together by BuildCorpus.
type Corpus struct {
	FilePath string

	lines             []string
	lineToInformation map[int]string
}

// BuildCorpus serializes the knowledge base into the corpus file and the
// line-to-information map atomically: both artifacts are staged and promoted
// together so retrieval lookups can never see one without the other.
func BuildCorpus(knowledgeBase *models.KnowledgeBase, corpusDir, supervisorDir string) (*Corpus, error) {
	log.Printf("[INFO] Building corpus file in %s", corpusDir)

	if err := os.MkdirAll(corpusDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create corpus directory: %w", err)
	}

	var lines []string
	lineToInformation := make(map[int]string)

	lineNumber := 1
	for _, encoding := range knowledgeBase.TopicOrder {
		for _, subtopic := range knowledgeBase.LectureMaterial[encoding] {
			lines = append(lines, formatCorpusLine(subtopic))
			lineToInformation[lineNumber] = subtopic.Information
			lineNumber++
		}
	}

	corpusPath := filepath.Join(corpusDir, CorpusFile)
	mapPath := filepath.Join(supervisorDir, LineMapFile)

	corpusTmp := corpusPath + ".tmp"
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(corpusTmp, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write corpus file: %w", err)
	}

	mapData, err := json.Marshal(lineToInformation)
	if err != nil {
		os.Remove(corpusTmp)
		return nil, fmt.Errorf("failed to marshal line map: %w", err)
	}
	mapTmp := mapPath + ".tmp"
	if err := os.WriteFile(mapTmp, mapData, 0o644); err != nil {
		os.Remove(corpusTmp)
		return nil, fmt.Errorf("failed to write line map: %w", err)
	}

	if err := os.Rename(corpusTmp, corpusPath); err != nil {
		os.Remove(corpusTmp)
		os.Remove(mapTmp)
		return nil, fmt.Errorf("failed to promote corpus file: %w", err)
	}
	if err := os.Rename(mapTmp, mapPath); err != nil {
		os.Remove(mapTmp)
		return nil, fmt.Errorf("failed to promote line map: %w", err)
	}

	log.Printf("[INFO] Corpus built with %d lines", len(lines))
	return &Corpus{
		FilePath:          corpusPath,
		lines:             lines,
		lineToInformation: lineToInformation,
	}, nil
}

// LoadCorpus reads previously built corpus artifacts from disk.
func LoadCorpus(corpusDir, supervisorDir string) (*Corpus, error) {
	corpusPath := filepath.Join(corpusDir, CorpusFile)
	data, err := os.ReadFile(corpusPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	var lineToInformation map[int]string
	if err := loadJSONFile(filepath.Join(supervisorDir, LineMapFile), &lineToInformation); err != nil {
		return nil, err
	}

	if len(lines) != len(lineToInformation) {
		return nil, fmt.Errorf("corpus file has %d lines but line map has %d entries; rebuild both together", len(lines), len(lineToInformation))
	}

	return &Corpus{
		FilePath:          corpusPath,
		lines:             lines,
		lineToInformation: lineToInformation,
	}, nil
}

func formatCorpusLine(subtopic models.Subtopic) string {
	var b strings.Builder
	b.WriteString("\tTopic Name: " + subtopic.Name + ".")
	b.WriteString("\tTopic Keywords: [")
	for _, keyword := range subtopic.Keywords {
		b.WriteString(keyword + ", ")
	}
	b.WriteString("].\t")
	b.WriteString("Topic Information: " + subtopic.Information)
	return b.String()
}

func (c *Corpus) Len() int {
	return len(c.lines)
}

// Lines returns the corpus lines in order; index i holds line i+1.
func (c *Corpus) Lines() []string {
	return c.lines
}

// Information resolves a 1-based line number to its subtopic material.
func (c *Corpus) Information(line int) (string, bool) {
	info, ok := c.lineToInformation[line]
	return info, ok
}

// LinesContaining returns the 1-based numbers of every corpus line that
// contains the given snippet verbatim. This is the reverse lookup used to map
// retrieval passages back onto subtopics.
func (c *Corpus) LinesContaining(snippet string) []int {
	var out []int
	for i, line := range c.lines {
		if strings.Contains(line, snippet) {
			out = append(out, i+1)
		}
	}
	return out
}
