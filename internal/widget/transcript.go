package widget

import (
	"strings"

	"github.com/echomind/echomind/internal/model/chat"
)

// Greeting is shown while the log is empty. It is never stored in the log.
const Greeting = "Hello! How are you feeling today? Write down your thoughts."

// Entry is one rendered line of the transcript.
type Entry struct {
	Role        chat.Role
	Text        string
	Placeholder bool
}

// Transcript returns what the widget should display: the greeting placeholder
// for an empty log, otherwise every message in order.
func (w *Widget) Transcript() []Entry {
	return TranscriptOf(w.Messages())
}

// TranscriptOf builds display entries for a log snapshot.
func TranscriptOf(messages []chat.Message) []Entry {
	if len(messages) == 0 {
		return []Entry{{Role: chat.RoleAssistant, Text: Greeting, Placeholder: true}}
	}

	entries := make([]Entry, 0, len(messages))
	for _, msg := range messages {
		entries = append(entries, Entry{Role: msg.Role, Text: msg.Text})
	}
	return entries
}

// Speaker is the label printed in front of an entry.
func Speaker(role chat.Role) string {
	if role == chat.RoleUser {
		return "You"
	}
	return "EchoMind"
}

// RenderText renders entries as plain "Speaker: text" lines.
func RenderText(entries []Entry) string {
	var builder strings.Builder
	for _, entry := range entries {
		builder.WriteString(Speaker(entry.Role))
		builder.WriteString(": ")
		builder.WriteString(entry.Text)
		builder.WriteString("\n")
	}
	return builder.String()
}
