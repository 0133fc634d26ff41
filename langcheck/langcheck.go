// Package langcheck gives a second opinion on recovered plaintext: how
// confident a statistical language detector is that the text is English.
package langcheck

import (
	"sync"

	"github.com/pemistahl/lingua-go"
)

var (
	once     sync.Once
	detector lingua.LanguageDetector
)

// Building the detector loads the language models, so it happens once.
func get() lingua.LanguageDetector {
	once.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.English, lingua.French, lingua.German, lingua.Spanish).
			Build()
	})
	return detector
}

// EnglishConfidence returns a value in [0, 1]. Text with no letters scores 0.
func EnglishConfidence(text []byte) float64 {
	return get().ComputeLanguageConfidence(string(text), lingua.English)
}

// MostEnglish returns the index of the candidate the detector rates most
// likely English, and its confidence. Ties keep the earlier candidate.
func MostEnglish(candidates [][]byte) (int, float64) {
	index, best := -1, -1.0
	for i, c := range candidates {
		if conf := EnglishConfidence(c); conf > best {
			index, best = i, conf
		}
	}
	if index < 0 {
		return -1, 0
	}
	return index, best
}
