package models

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is an ordered sequence of role-tagged messages. The language
// model interprets position as discourse role, so turns are only ever added
// through the named insertion points below and never reordered.
type Conversation []Message

func NewConversation(messages ...Message) Conversation {
	return Conversation(messages)
}

func (c *Conversation) Append(messages ...Message) {
	*c = append(*c, messages...)
}

// InsertBeforeFinalUserTurn places the given messages immediately before the
// last user turn. In the ranking conversation this is the slot for retrieved
// lecture material: context must land directly ahead of the question/answer
// being rated.
func (c *Conversation) InsertBeforeFinalUserTurn(messages ...Message) {
	c.insertAt(c.lastIndexOfRole(RoleUser), messages...)
}

// InsertBeforeQuizExchange places the given messages immediately before the
// first assistant turn. In the explanation conversation this is the slot for
// retrieved lecture material: context must land ahead of the quoted
// quiz/answer exchange and the closing rating-explanation instruction.
func (c *Conversation) InsertBeforeQuizExchange(messages ...Message) {
	c.insertAt(c.firstIndexOfRole(RoleAssistant), messages...)
}

func (c *Conversation) insertAt(index int, messages ...Message) {
	if len(messages) == 0 {
		return
	}
	if index < 0 || index > len(*c) {
		index = len(*c)
	}
	out := make(Conversation, 0, len(*c)+len(messages))
	out = append(out, (*c)[:index]...)
	out = append(out, messages...)
	out = append(out, (*c)[index:]...)
	*c = out
}

func (c Conversation) lastIndexOfRole(role string) int {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].Role == role {
			return i
		}
	}
	return -1
}

func (c Conversation) firstIndexOfRole(role string) int {
	for i := range c {
		if c[i].Role == role {
			return i
		}
	}
	return -1
}
