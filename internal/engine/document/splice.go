package document

// Splice replaces the runes in [start, end) of content with text.
// Offsets are clamped into [0, rune length] and end is raised to start if it
// lies before it.
func Splice(content string, start, end int, text string) string {
	runes := []rune(content)
	start = clamp(start, 0, len(runes))
	end = clamp(end, start, len(runes))

	out := make([]rune, 0, len(runes)-(end-start)+len(text))
	out = append(out, runes[:start]...)
	out = append(out, []rune(text)...)
	out = append(out, runes[end:]...)
	return string(out)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
