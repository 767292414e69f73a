package tui

// lineStart returns the rune offset of the first character on the line
// containing offset.
func lineStart(content string, offset int) int {
	start, i := 0, 0
	for _, r := range content {
		if i >= offset {
			break
		}
		i++
		if r == '\n' {
			start = i
		}
	}
	return start
}

// lineEnd returns the rune offset of the newline ending the line containing
// offset, or the content length on the last line.
func lineEnd(content string, offset int) int {
	i := 0
	for _, r := range content {
		if i >= offset && r == '\n' {
			return i
		}
		i++
	}
	return i
}
