// Package chunk provides text chunking by estimated token count.
package chunk

import "strings"

// DefaultMaxTokens is the default maximum tokens per chunk. It keeps each
// translation request comfortably inside the model's context window.
const DefaultMaxTokens = 750

// EstimateTokens estimates the token count for a text.
// Uses a simple heuristic: ~4 characters per token. Telugu script encodes to
// three bytes per rune in UTF-8, so counting runes rather than bytes keeps
// the estimate from tripling for Telugu input.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	runes := len([]rune(text))
	tokens := runes / 4
	if tokens == 0 {
		tokens = 1
	}
	return tokens
}

// SplitByTokens splits text into chunks that don't exceed maxTokens,
// preferring sentence boundaries. Sentences are kept whole; a single
// sentence longer than maxTokens becomes its own chunk.
func SplitByTokens(text string, maxTokens int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	if EstimateTokens(text) <= maxTokens {
		return []string{text}
	}

	sentences := splitSentences(text)

	var chunks []string
	var current strings.Builder
	currentTokens := 0

	for _, sentence := range sentences {
		sentenceTokens := EstimateTokens(sentence)

		if currentTokens+sentenceTokens > maxTokens && current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentTokens = 0
		}

		current.WriteString(sentence)
		currentTokens += sentenceTokens
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// sentence terminators: Latin punctuation plus the danda used in Indic scripts
var terminators = map[rune]bool{'.': true, '!': true, '?': true, '।': true, '\n': true}

// splitSentences splits text after sentence terminators. The terminator and
// any following whitespace stay attached to the preceding sentence so that
// joining the parts reproduces the input exactly.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if terminators[r] {
			// Consume trailing spaces into the same sentence
			if i+1 < len(runes) && runes[i+1] != ' ' {
				sentences = append(sentences, current.String())
				current.Reset()
			}
		}
		if r == ' ' && i > 0 && terminators[runes[i-1]] {
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}

	return sentences
}
