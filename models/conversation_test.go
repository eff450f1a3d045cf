package models

import "testing"

func TestInsertBeforeFinalUserTurn(t *testing.T) {
	conversation := NewConversation(
		Message{Role: RoleSystem, Content: "persona"},
		Message{Role: RoleUser, Content: "question"},
	)

	conversation.InsertBeforeFinalUserTurn(
		Message{Role: RoleSystem, Content: "material 1"},
		Message{Role: RoleSystem, Content: "material 2"},
	)

	expected := []string{"persona", "material 1", "material 2", "question"}
	assertContents(t, conversation, expected)
}

func TestInsertBeforeQuizExchange(t *testing.T) {
	conversation := NewConversation(
		Message{Role: RoleSystem, Content: "persona"},
		Message{Role: RoleAssistant, Content: "quiz"},
		Message{Role: RoleUser, Content: "answer"},
		Message{Role: RoleSystem, Content: "explain"},
	)

	conversation.InsertBeforeQuizExchange(
		Message{Role: RoleSystem, Content: "material"},
	)

	expected := []string{"persona", "material", "quiz", "answer", "explain"}
	assertContents(t, conversation, expected)
}

func TestInsertNothingIsNoOp(t *testing.T) {
	conversation := NewConversation(
		Message{Role: RoleSystem, Content: "persona"},
		Message{Role: RoleUser, Content: "question"},
	)

	conversation.InsertBeforeFinalUserTurn()

	assertContents(t, conversation, []string{"persona", "question"})
}

func TestInsertWithoutSlotAppends(t *testing.T) {
	conversation := NewConversation(
		Message{Role: RoleSystem, Content: "persona"},
	)

	// No assistant turn exists, so the insertion falls back to the end.
	conversation.InsertBeforeQuizExchange(Message{Role: RoleSystem, Content: "material"})

	assertContents(t, conversation, []string{"persona", "material"})
}

func assertContents(t *testing.T, conversation Conversation, expected []string) {
	t.Helper()
	if len(conversation) != len(expected) {
		t.Fatalf("expected %d turns, got %d", len(expected), len(conversation))
	}
	for i, content := range expected {
		if conversation[i].Content != content {
			t.Errorf("turn %d: expected content %q, got %q", i, content, conversation[i].Content)
		}
	}
}
