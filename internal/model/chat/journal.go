package chat

import "github.com/echomind/echomind/internal/analysis/emotion"

// JournalEntry is the request body shared by /chat and /analyze.
type JournalEntry struct {
	Text *string `json:"text"`
}

// ChatReply is the /chat success body. Clients only rely on AIResponse.
type ChatReply struct {
	UserText   string `json:"user_text"`
	AIResponse string `json:"ai_response"`
}

// AnalysisReply is the /analyze success body.
type AnalysisReply struct {
	UserText string          `json:"user_text"`
	Analysis []emotion.Score `json:"analysis"`
}
