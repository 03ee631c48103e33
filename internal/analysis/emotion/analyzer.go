package emotion

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Label is one of the emotion classes reported by /analyze.
type Label string

const (
	Anger    Label = "anger"
	Disgust  Label = "disgust"
	Fear     Label = "fear"
	Joy      Label = "joy"
	Neutral  Label = "neutral"
	Sadness  Label = "sadness"
	Surprise Label = "surprise"
)

// Labels lists every label in its canonical order. Ties are broken in this order.
var Labels = []Label{Anger, Disgust, Fear, Joy, Neutral, Sadness, Surprise}

// DefaultTopK matches the number of emotions returned per entry.
const DefaultTopK = 3

// Score is a label with its normalized probability.
type Score struct {
	Label Label   `json:"label"`
	Score float64 `json:"score"`
}

const (
	keywordWeight  = 3.0
	neutralBase    = 1.0
	smoothing      = 0.1
	scorePrecision = 10000
)

var keywordBuckets = map[Label][]string{
	Anger: {
		"angry", "furious", "rage", "mad", "annoyed", "pissed", "irritated", "outraged",
		"hate", "frustrated", "fed up", "livid", "resent", "resentful",
	},
	Disgust: {
		"disgust", "disgusted", "gross", "sick of", "revolting", "nasty", "repulsed",
		"ashamed", "awful person", "yuck",
	},
	Fear: {
		"afraid", "scared", "anxious", "anxiety", "worried", "nervous", "panic", "terrified",
		"fear", "dread", "overwhelmed", "stressed", "uneasy",
	},
	Joy: {
		"happy", "glad", "great", "excited", "love", "loved", "grateful", "thankful", "proud",
		"wonderful", "awesome", "amazing", "joy", "relieved", "calm", "good day",
	},
	Sadness: {
		"sad", "tired", "exhausted", "lonely", "alone", "depressed", "down", "cry",
		"cried", "crying", "hurt", "miss", "missed", "missing", "lost", "empty", "hopeless", "heartbroken", "grief",
	},
	Surprise: {
		"surprised", "shocked", "unexpected", "can't believe", "cannot believe", "wow",
		"suddenly", "out of nowhere", "astonished",
	},
}

// Analyze scores text against every label and returns the topK best, highest first.
// A non-positive topK means DefaultTopK; topK above the label count returns all labels.
func Analyze(text string, topK int) []Score {
	weights := weigh(text)

	total := 0.0
	for _, label := range Labels {
		total += weights[label]
	}

	scores := make([]Score, 0, len(Labels))
	for _, label := range Labels {
		scores = append(scores, Score{Label: label, Score: round(weights[label] / total)})
	}

	return Top(scores, topK)
}

// Top sorts scores descending (stable on canonical label order) and truncates to topK.
func Top(scores []Score, topK int) []Score {
	if topK <= 0 {
		topK = DefaultTopK
	}

	sorted := append([]Score(nil), scores...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return labelIndex(sorted[i].Label) < labelIndex(sorted[j].Label)
	})

	if len(sorted) > topK {
		sorted = sorted[:topK]
	}
	return sorted
}

// Normalize rescales scores to sum to one. Non-positive totals yield neutral certainty.
func Normalize(scores []Score) []Score {
	total := 0.0
	for _, s := range scores {
		if s.Score > 0 {
			total += s.Score
		}
	}
	if total <= 0 {
		return []Score{{Label: Neutral, Score: 1}}
	}

	out := make([]Score, 0, len(scores))
	for _, s := range scores {
		if s.Score <= 0 {
			continue
		}
		out = append(out, Score{Label: s.Label, Score: round(s.Score / total)})
	}
	return out
}

// ParseLabel maps free-form label text onto a known Label.
func ParseLabel(raw string) (Label, bool) {
	normalized := Label(strings.ToLower(strings.TrimSpace(raw)))
	for _, label := range Labels {
		if label == normalized {
			return label, true
		}
	}
	return "", false
}

func weigh(text string) map[Label]float64 {
	weights := make(map[Label]float64, len(Labels))
	for _, label := range Labels {
		weights[label] = smoothing
	}
	weights[Neutral] += neutralBase

	normalized := padWords(text)
	if strings.TrimSpace(normalized) == "" {
		return weights
	}

	for label, keywords := range keywordBuckets {
		for _, word := range keywords {
			if strings.Contains(normalized, padWords(word)) {
				weights[label] += keywordWeight
			}
		}
	}

	exclamations := strings.Count(text, "!")
	if exclamations > 0 {
		weights[Surprise] += float64(exclamations)
		if exclamations == 1 {
			weights[Joy] += 1
		}
	}

	return weights
}

// padWords lowercases text, collapses everything but letters, digits and
// apostrophes into single spaces, and pads both ends so keywords only match
// whole words.
func padWords(text string) string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '’'
	})
	for i, f := range fields {
		fields[i] = strings.ReplaceAll(f, "’", "'")
	}
	return " " + strings.Join(fields, " ") + " "
}

func labelIndex(label Label) int {
	for i, l := range Labels {
		if l == label {
			return i
		}
	}
	return len(Labels)
}

func round(v float64) float64 {
	return math.Round(v*scorePrecision) / scorePrecision
}
