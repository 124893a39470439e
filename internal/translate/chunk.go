package translate

import "unicode/utf8"

// SplitChunks splits text into chunks of at most size runes, preferring to
// break at whitespace so words survive the provider round trip. Chunk order
// equals text order; joining the chunks with spaces reconstructs the text's
// word sequence.
func SplitChunks(text string, size int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 || utf8.RuneCountInString(text) <= size {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	for len(runes) > 0 {
		if len(runes) <= size {
			chunks = append(chunks, string(runes))
			break
		}

		// Look back from the size boundary for a whitespace break point
		cut := size
		for i := size; i > size/2; i-- {
			if isSpace(runes[i-1]) {
				cut = i
				break
			}
		}

		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	return chunks
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
