package emotion

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	analysis "github.com/echomind/echomind/internal/analysis/emotion"
)

// Config controls the emotion analysis service.
type Config struct {
	Enabled bool
	TopK    int
}

// Service classifies journal entries with the chat model and falls back to keyword heuristics.
type Service struct {
	enabled    bool
	topK       int
	classifier compose.Runnable[map[string]any, *schema.Message]
	fallback   func(text string, topK int) []analysis.Score
}

// NewService builds the service. A nil chatModel or a disabled config yields a heuristic-only service.
func NewService(ctx context.Context, chatModel model.ChatModel, cfg Config) (*Service, error) {
	topK := cfg.TopK
	if topK <= 0 {
		topK = analysis.DefaultTopK
	}

	svc := &Service{
		enabled:  cfg.Enabled && chatModel != nil,
		topK:     topK,
		fallback: analysis.Analyze,
	}

	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(classifierSystemPrompt),
		schema.UserMessage(classifierUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "compile emotion classifier chain")
	}

	svc.classifier = runnable
	return svc, nil
}

// Enabled reports whether the model-backed classifier is active.
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.classifier != nil
}

// Analyze returns the top emotions for text, highest score first. It never fails:
// classifier errors degrade to the heuristic analyzer.
func (s *Service) Analyze(ctx context.Context, text string) []analysis.Score {
	if !s.Enabled() {
		return s.fallback(text, s.topK)
	}

	msg, err := s.classifier.Invoke(ctx, map[string]any{
		"entry": strings.TrimSpace(text),
	})
	if err != nil {
		log.Warn().Err(err).Msg("emotion classifier invoke failed, using heuristics")
		return s.fallback(text, s.topK)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return s.fallback(text, s.topK)
	}

	scores, err := parseClassifierOutput(msg.Content)
	if err != nil {
		log.Warn().Err(err).Msg("emotion classifier output rejected, using heuristics")
		return s.fallback(text, s.topK)
	}

	return analysis.Top(analysis.Normalize(scores), s.topK)
}

// parseClassifierOutput extracts the JSON object from model output and validates labels.
func parseClassifierOutput(content string) ([]analysis.Score, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, errors.New("missing json object")
	}

	var payload classifierPayload
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &payload); err != nil {
		return nil, errors.Wrap(err, "decode classifier json")
	}
	if len(payload.Emotions) == 0 {
		return nil, errors.New("no emotions in classifier output")
	}

	merged := make(map[analysis.Label]float64, len(payload.Emotions))
	for _, item := range payload.Emotions {
		label, ok := analysis.ParseLabel(item.Label)
		if !ok {
			return nil, errors.Errorf("unknown emotion label %q", item.Label)
		}
		merged[label] += item.Score
	}

	scores := make([]analysis.Score, 0, len(merged))
	for _, label := range analysis.Labels {
		if v, ok := merged[label]; ok {
			scores = append(scores, analysis.Score{Label: label, Score: v})
		}
	}
	return scores, nil
}

type classifierPayload struct {
	Emotions []struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	} `json:"emotions"`
}

const classifierSystemPrompt = "You analyze the emotional content of personal journal entries. " +
	"Return only a JSON object with a single key \"emotions\" holding an array of objects with keys \"label\" (string) and \"score\" (number). " +
	"Labels must be among anger, disgust, fear, joy, neutral, sadness, surprise. " +
	"Scores are probabilities between 0 and 1. Do not output any other text."

const classifierUserPrompt = "Journal entry:\n{entry}"
