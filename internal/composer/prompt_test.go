package composer

import (
	"strings"
	"testing"

	"github.com/kalambet/helene/internal/health"
)

func TestAssemble_NoHistory(t *testing.T) {
	got := Assemble("SYS", "CTX\n", nil, "Bonjour")
	want := "SYS\n\nCTX\n\n\nUser: Bonjour\n\nHélène:"
	if got != want {
		t.Errorf("Assemble = %q, want %q", got, want)
	}
	if strings.Contains(got, "Recent conversation") {
		t.Error("empty history must not emit a heading")
	}
}

func TestAssemble_WithHistory(t *testing.T) {
	history := []health.Turn{
		{Role: health.RoleUser, Content: "first question"},
		{Role: health.RoleAssistant, Content: "first answer"},
		{Role: health.RoleUser, Content: "second question"},
	}
	got := Assemble("SYS", "CTX\n", history, "third")
	want := "SYS\n\nCTX\n" +
		"\n\nRecent conversation:\n" +
		"User: first question\n" +
		"Hélène: first answer\n" +
		"User: second question" +
		"\n\nUser: third\n\nHélène:"
	if got != want {
		t.Errorf("Assemble mismatch\ngot:  %q\nwant: %q", got, want)
	}

	last := -1
	for _, turn := range history {
		idx := strings.Index(got, turn.Content)
		if idx <= last {
			t.Errorf("turn %q out of order", turn.Content)
		}
		last = idx
	}
}

func TestAssemble_SystemPromptFirst(t *testing.T) {
	got := Assemble(SystemPrompt, BuildContext(health.UserContext{}), nil, "hi")
	if !strings.HasPrefix(got, "You are Hélène") {
		t.Errorf("system prompt must lead the prompt, got %q", got[:40])
	}
	if !strings.HasSuffix(got, "\n\nUser: hi\n\nHélène:") {
		t.Errorf("prompt must end with the reply cue, got %q", got[len(got)-30:])
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	uc := health.UserContext{Age: 50, RecentLogs: []health.DailyLog{{LogDate: "2024-01-01", Mood: 3}}}
	history := []health.Turn{{Role: health.RoleUser, Content: "a"}}
	first := Assemble(SystemPrompt, BuildContext(uc), history, "b")
	for i := 0; i < 10; i++ {
		if got := Assemble(SystemPrompt, BuildContext(uc), history, "b"); got != first {
			t.Fatal("Assemble is not deterministic")
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"abcdefgh", 2},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.input); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
