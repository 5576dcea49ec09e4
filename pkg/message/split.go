package message

// MaxLength is Telegram's limit for one message. Telegram counts UTF-16 code
// units while Split counts runes, so a full chunk carrying emoji or other
// astral-plane characters can still exceed the limit.
const MaxLength = 4096

// Split cuts text into consecutive chunks of at most limit runes.
// Cuts are fixed-width: words and Markdown entities may be broken, codepoints never are.
func Split(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxLength
	}

	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	chunks := make([]string, 0, (len(runes)+limit-1)/limit)
	for start := 0; start < len(runes); start += limit {
		end := min(start+limit, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
