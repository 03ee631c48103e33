package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/echomind/echomind/internal/analysis/emotion"
)

// ErrEmptyReply is returned when the model produces no text.
var ErrEmptyReply = errors.New("model returned an empty reply")

// Service generates empathetic replies to journal entries.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the reply chain on top of chatModel.
func NewService(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage(entryPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "compile reply chain")
	}

	return &Service{chain: runnable}, nil
}

// Respond returns a short supportive reply to entry. mood, when present,
// steers the tone toward the dominant detected emotion.
func (s *Service) Respond(ctx context.Context, entry string, mood []emotion.Score) (string, error) {
	response, err := s.chain.Invoke(ctx, map[string]any{
		"system": buildSystemPrompt(mood),
		"entry":  entry,
	})
	if err != nil {
		return "", errors.Wrap(err, "run reply chain")
	}

	reply := ""
	if response != nil {
		reply = strings.TrimSpace(response.Content)
	}
	if reply == "" {
		return "", ErrEmptyReply
	}

	log.Debug().Int("entry_chars", len(entry)).Int("reply_chars", len(reply)).Msg("generated reply")
	return reply, nil
}

func buildSystemPrompt(mood []emotion.Score) string {
	if len(mood) == 0 {
		return basePrompt
	}

	top := mood[0]
	hint := describeEmotion(top.Label)
	if hint == "" {
		return basePrompt
	}

	var builder strings.Builder
	builder.WriteString(basePrompt)
	builder.WriteString("\n\nEmotional read of the entry: ")
	builder.WriteString(fmt.Sprintf("%s (confidence %.2f). ", top.Label, top.Score))
	builder.WriteString(hint)
	return builder.String()
}

func describeEmotion(label emotion.Label) string {
	switch label {
	case emotion.Anger:
		return "The writer sounds angry; acknowledge the frustration calmly without judging it."
	case emotion.Disgust:
		return "The writer sounds repelled or ashamed; respond with acceptance."
	case emotion.Fear:
		return "The writer sounds anxious; be reassuring and grounding."
	case emotion.Joy:
		return "The writer sounds happy; share the warmth and encourage them."
	case emotion.Sadness:
		return "The writer sounds low; be gentle and validating."
	case emotion.Surprise:
		return "The writer sounds caught off guard; help them make sense of it."
	case emotion.Neutral:
		return "The writer sounds calm; keep a clear and friendly tone."
	default:
		return ""
	}
}

const basePrompt = "You are EchoMind, an AI emotional co-pilot for journaling. " +
	"Reply in one to three sentences, warmly and without giving medical advice."

const entryPrompt = "Generate a short, empathetic, and supportive response to the following journal entry: '{entry}'"
