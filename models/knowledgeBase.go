package models

// Subtopic is one ordered unit of lecture material within a topic. Its
// position in the topic traversal determines its corpus line number.
type Subtopic struct {
	Name        string   `json:"name"`
	Information string   `json:"information"`
	Keywords    []string `json:"keywords,omitempty"`
}

// KnowledgeBase holds the curated subject material for one tutoring session.
// TopicOrder preserves the order topics were declared in; corpus line
// numbering depends on it, so it must never be resorted after load.
type KnowledgeBase struct {
	TopicOrder        []string
	Topics            map[string]string
	TopicDescriptions map[string]string
	LectureMaterial   map[string][]Subtopic
}

// Subtopics returns every subtopic in corpus traversal order: topics in
// declaration order, subtopics in their array order.
func (kb *KnowledgeBase) Subtopics() []Subtopic {
	var out []Subtopic
	for _, encoding := range kb.TopicOrder {
		out = append(out, kb.LectureMaterial[encoding]...)
	}
	return out
}

// HasLectureMaterial reports whether full lecture material is configured.
func (kb *KnowledgeBase) HasLectureMaterial() bool {
	return kb != nil && len(kb.LectureMaterial) > 0
}
