package tui

const ellipsis = "…"

// truncateEnd shortens s to at most limit runes, marking truncation
// with a trailing ellipsis.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit == 1 {
		return ellipsis
	}
	return string(r[:limit-1]) + ellipsis
}

// truncateMiddle shortens s to at most limit runes, keeping the start
// and end with a single ellipsis between them. Suited to URLs, where
// both ends carry meaning.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit == 1 {
		return ellipsis
	}
	left := (limit - 1) / 2
	right := limit - 1 - left
	if left == 0 {
		return ellipsis + string(r[len(r)-right:])
	}
	return string(r[:left]) + ellipsis + string(r[len(r)-right:])
}
