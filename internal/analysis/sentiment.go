package analysis

import "strings"

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

var positiveWords = []string{
	"good", "great", "excellent", "positive", "success", "successful", "breakthrough",
	"beneficial", "advantage", "advantageous", "improvement", "improved", "advance",
	"effective", "efficient", "promising", "valuable", "significant", "innovative",
	"novel", "revolutionary", "outstanding", "remarkable", "exceptional",
}

var negativeWords = []string{
	"bad", "poor", "negative", "failure", "failed", "drawback", "challenge",
	"difficult", "problem", "issue", "limitation", "limited", "constraint",
	"ineffective", "inefficient", "disappointing", "inadequate",
	"insufficient", "unresolved", "unsuccessful", "weak", "flawed", "defect",
}

type SentimentResult struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
}

// AnalyzeSentiment counts lexicon words present in text. Score is the
// positive share of all matches; with no matches the result is neutral 0.5.
func AnalyzeSentiment(text string) SentimentResult {
	lower := Normalize(text)
	pos, neg := 0, 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}
	if pos+neg == 0 {
		return SentimentResult{Sentiment: SentimentNeutral, Score: 0.5}
	}
	score := float64(pos) / float64(pos+neg)
	label := SentimentNeutral
	switch {
	case score > 0.66:
		label = SentimentPositive
	case score < 0.33:
		label = SentimentNegative
	}
	return SentimentResult{Sentiment: label, Score: round2(score)}
}
