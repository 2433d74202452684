package youtube

import (
	"sort"
	"strings"
	"unicode"
)

// Spanish stopwords used when scoring transcript sentences.
var spanishStopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "al", "algo", "algunas", "algunos", "ante", "antes", "como",
		"con", "contra", "cual", "cuando", "de", "del", "desde", "donde",
		"durante", "e", "el", "ella", "ellas", "ellos", "en", "entre",
		"era", "eran", "es", "esa", "esas", "ese", "eso", "esos", "esta",
		"estas", "este", "esto", "estos", "fue", "ha", "hay", "la", "las",
		"le", "les", "lo", "los", "mas", "más", "me", "mi", "muy", "nada",
		"ni", "no", "nos", "o", "os", "otra", "otros", "para", "pero",
		"poco", "por", "porque", "que", "qué", "se", "sea", "ser", "si",
		"sí", "sin", "sobre", "son", "su", "sus", "también", "te", "tiene",
		"tienen", "todo", "todos", "tu", "tus", "un", "una", "uno", "unos",
		"y", "ya", "yo",
	} {
		spanishStopwords[w] = struct{}{}
	}
}

// Summarize produces a frequency-based extractive summary: sentences are
// scored by the frequencies of their non-stopword tokens and the top
// numSentences are returned in their original order. Texts with fewer
// sentences than requested come back untouched.
func Summarize(text string, numSentences int) string {
	if text == "" || numSentences <= 0 {
		return text
	}

	sentences := splitSentences(text)
	if len(sentences) <= numSentences {
		return text
	}

	freq := map[string]int{}
	for _, word := range tokenize(text) {
		if _, stop := spanishStopwords[word]; stop {
			continue
		}
		freq[word]++
	}

	scores := make(map[int]int, len(sentences))
	for i, sentence := range sentences {
		for _, word := range tokenize(sentence) {
			if n, ok := freq[word]; ok {
				scores[i] += n
			}
		}
	}

	indices := make([]int, 0, len(scores))
	for i := range scores {
		indices = append(indices, i)
	}
	sort.Slice(indices, func(a, b int) bool {
		if scores[indices[a]] != scores[indices[b]] {
			return scores[indices[a]] > scores[indices[b]]
		}
		return indices[a] < indices[b]
	})
	if len(indices) > numSentences {
		indices = indices[:numSentences]
	}
	sort.Ints(indices)

	picked := make([]string, 0, len(indices))
	for _, i := range indices {
		picked = append(picked, sentences[i])
	}
	return strings.Join(picked, " ")
}

func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
