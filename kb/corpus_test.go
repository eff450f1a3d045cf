package kb

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/b-castleman/llm-tutor-knowledge-base/models"
)

func corpusKnowledgeBase() *models.KnowledgeBase {
	return &models.KnowledgeBase{
		TopicOrder: []string{"T1", "T2"},
		Topics: map[string]string{
			"T1": "Neurons",
			"T2": "Perceptrons",
		},
		LectureMaterial: map[string][]models.Subtopic{
			"T1": {
				{Name: "Basics", Information: "Neurons have axons.", Keywords: []string{"neuron", "axon"}},
				{Name: "Signals", Information: "Signals travel along dendrites."},
			},
			"T2": {
				{Name: "History", Information: "The perceptron was built in 1958.", Keywords: []string{"perceptron"}},
			},
		},
	}
}

func TestBuildCorpusLineFormat(t *testing.T) {
	dir := t.TempDir()
	corpus, err := BuildCorpus(corpusKnowledgeBase(), dir, dir)
	if err != nil {
		t.Fatalf("BuildCorpus returned error: %v", err)
	}

	if corpus.Len() != 3 {
		t.Fatalf("expected 3 corpus lines, got %d", corpus.Len())
	}

	expected := "\tTopic Name: Basics.\tTopic Keywords: [neuron, axon, ].\tTopic Information: Neurons have axons."
	if corpus.Lines()[0] != expected {
		t.Errorf("line format mismatch:\nexpected %q\ngot      %q", expected, corpus.Lines()[0])
	}

	// A subtopic without keywords still carries the empty bracket section.
	if !strings.Contains(corpus.Lines()[1], "Topic Keywords: [].") {
		t.Errorf("expected empty keyword brackets, got %q", corpus.Lines()[1])
	}
}

func TestBuildCorpusWritesBothArtifacts(t *testing.T) {
	corpusDir := t.TempDir()
	supervisorDir := t.TempDir()

	corpus, err := BuildCorpus(corpusKnowledgeBase(), corpusDir, supervisorDir)
	if err != nil {
		t.Fatalf("BuildCorpus returned error: %v", err)
	}

	if corpus.FilePath != filepath.Join(corpusDir, CorpusFile) {
		t.Errorf("unexpected corpus path %q", corpus.FilePath)
	}
	if _, err := os.Stat(corpus.FilePath); err != nil {
		t.Errorf("corpus file not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(supervisorDir, LineMapFile)); err != nil {
		t.Errorf("line map not written: %v", err)
	}

	// No staging leftovers.
	entries, err := os.ReadDir(corpusDir)
	if err != nil {
		t.Fatalf("failed to list corpus directory: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("staging file left behind: %s", entry.Name())
		}
	}
}

func TestLoadCorpusRoundTrip(t *testing.T) {
	dir := t.TempDir()
	built, err := BuildCorpus(corpusKnowledgeBase(), dir, dir)
	if err != nil {
		t.Fatalf("BuildCorpus returned error: %v", err)
	}

	loaded, err := LoadCorpus(dir, dir)
	if err != nil {
		t.Fatalf("LoadCorpus returned error: %v", err)
	}

	if !reflect.DeepEqual(loaded.Lines(), built.Lines()) {
		t.Errorf("loaded lines differ from built lines")
	}
	for line := 1; line <= built.Len(); line++ {
		builtInfo, _ := built.Information(line)
		loadedInfo, ok := loaded.Information(line)
		if !ok || loadedInfo != builtInfo {
			t.Errorf("line %d: expected %q, got %q (ok=%t)", line, builtInfo, loadedInfo, ok)
		}
	}
}

func TestLoadCorpusRejectsLineCountMismatch(t *testing.T) {
	dir := t.TempDir()
	if _, err := BuildCorpus(corpusKnowledgeBase(), dir, dir); err != nil {
		t.Fatalf("BuildCorpus returned error: %v", err)
	}

	// Truncate the corpus file so it disagrees with the line map.
	corpusPath := filepath.Join(dir, CorpusFile)
	if err := os.WriteFile(corpusPath, []byte("only one line\n"), 0o644); err != nil {
		t.Fatalf("failed to truncate corpus file: %v", err)
	}

	_, err := LoadCorpus(dir, dir)
	if err == nil {
		t.Fatal("expected error for corpus/line map mismatch")
	}
	if !strings.Contains(err.Error(), "rebuild both together") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestLinesContaining(t *testing.T) {
	dir := t.TempDir()
	corpus, err := BuildCorpus(corpusKnowledgeBase(), dir, dir)
	if err != nil {
		t.Fatalf("BuildCorpus returned error: %v", err)
	}

	lines := corpus.LinesContaining("The perceptron was built in 1958.")
	if !reflect.DeepEqual(lines, []int{3}) {
		t.Errorf("expected [3], got %v", lines)
	}

	if got := corpus.LinesContaining("nowhere in the corpus"); len(got) != 0 {
		t.Errorf("expected no lines, got %v", got)
	}

	// A snippet shared by several lines maps to all of them.
	shared := corpus.LinesContaining("Topic Information: ")
	if !reflect.DeepEqual(shared, []int{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", shared)
	}
}

func TestInformationUnknownLine(t *testing.T) {
	dir := t.TempDir()
	corpus, err := BuildCorpus(corpusKnowledgeBase(), dir, dir)
	if err != nil {
		t.Fatalf("BuildCorpus returned error: %v", err)
	}

	if _, ok := corpus.Information(99); ok {
		t.Error("expected no information for unknown line")
	}
}
