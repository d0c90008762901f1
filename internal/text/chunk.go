package text

import "strings"

// Chunk splits a reply into bubble-sized groups of lines. Blank lines
// are dropped and the remaining lines are trimmed; when at most
// maxLines survive the whole reply is one chunk. Longer replies become
// consecutive groups of exactly maxLines lines, preserving order, with
// the final group holding the remainder. The result is never empty: a
// reply with no usable lines comes back as a single chunk holding the
// original string.
func Chunk(s string, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return []string{s}
	}
	if len(lines) <= maxLines {
		return []string{strings.Join(lines, "\n")}
	}

	chunks := make([]string, 0, (len(lines)+maxLines-1)/maxLines)
	for start := 0; start < len(lines); start += maxLines {
		end := start + maxLines
		if end > len(lines) {
			end = len(lines)
		}
		chunks = append(chunks, strings.Join(lines[start:end], "\n"))
	}
	return chunks
}
