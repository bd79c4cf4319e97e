package classify

import (
	"context"
	"strings"
)

// lexiconClassifier is the local fallback: a fixed polarity word list mapped
// into three labels via thresholds. No confidence is reported.
type lexiconClassifier struct{}

func newLexiconClassifier() lexiconClassifier { return lexiconClassifier{} }

func (lexiconClassifier) Sentiment(_ context.Context, text string) (Sentiment, error) {
	return Sentiment{Label: LabelForPolarity(Polarity(text))}, nil
}

func (lexiconClassifier) Entities(_ context.Context, text string) (map[string]string, error) {
	return regexExtract(text), nil
}

func (lexiconClassifier) Backend() string { return "lexicon" }

// LabelForPolarity maps a polarity score in [-1, 1] onto the three fixed
// labels: > 0.5 Positive, < -0.5 Negative, Neutral otherwise.
func LabelForPolarity(score float64) string {
	switch {
	case score > 0.5:
		return "Positive"
	case score < -0.5:
		return "Negative"
	default:
		return "Neutral"
	}
}

// Polarity averages the polarity weights of known words in text, with a
// simple negation flip for the preceding token. Texts with no known words
// score 0.
func Polarity(text string) float64 {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '\''
	})

	var sum float64
	var matched int
	for i, w := range words {
		weight, ok := polarityLexicon[w]
		if !ok {
			continue
		}
		if i > 0 && negators[words[i-1]] {
			weight = -weight
		}
		sum += weight
		matched++
	}
	if matched == 0 {
		return 0
	}
	score := sum / float64(matched)
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return score
}

var negators = map[string]bool{
	"not": true, "no": true, "never": true, "n't": true, "don't": true,
	"doesn't": true, "didn't": true, "isn't": true, "wasn't": true,
	"can't": true, "won't": true,
}

// polarityLexicon is a compact graded word list in [-1, 1], enough for the
// screening-chat domain (short, plain candidate replies).
var polarityLexicon = map[string]float64{
	"amazing": 1.0, "excellent": 1.0, "fantastic": 1.0, "outstanding": 1.0,
	"perfect": 1.0, "wonderful": 1.0, "awesome": 0.9, "brilliant": 0.9,
	"love": 0.8, "great": 0.8, "excited": 0.8, "delighted": 0.9,
	"happy": 0.7, "good": 0.7, "enjoy": 0.6, "enjoyed": 0.6, "glad": 0.6,
	"confident": 0.6, "interested": 0.5, "comfortable": 0.5, "nice": 0.5,
	"like": 0.4, "fine": 0.3, "okay": 0.2, "ok": 0.2,

	"terrible": -1.0, "horrible": -1.0, "awful": -1.0, "worst": -1.0,
	"hate": -0.9, "dreadful": -0.9, "miserable": -0.8, "angry": -0.7,
	"frustrated": -0.7, "bad": -0.7, "disappointed": -0.7, "upset": -0.6,
	"stressful": -0.6, "sad": -0.6, "unhappy": -0.6, "difficult": -0.5,
	"worried": -0.5, "nervous": -0.4, "confused": -0.4, "tired": -0.3,
}
