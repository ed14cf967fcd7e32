// ABOUTME: Extraction of indexable text from journal markdown.
// ABOUTME: Drops the frontmatter block and collects level-2 section headers.
package embeddings

import "strings"

const frontmatterDelim = "---"

// ExtractSearchableText returns the body text of a journal document with
// frontmatter and "## " headers removed, and the header names in order of
// first appearance.
func ExtractSearchableText(markdown string) (text string, sections []string) {
	lines := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n")
	lines = stripFrontmatter(lines)

	sections = []string{}
	seen := make(map[string]bool)
	var content []string
	blank := false

	for _, line := range lines {
		if name, ok := sectionHeader(line); ok {
			if name != "" && !seen[name] {
				seen[name] = true
				sections = append(sections, name)
			}
			continue
		}
		// Collapse runs of blank lines left behind by removed headers.
		if strings.TrimSpace(line) == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		content = append(content, line)
	}

	return strings.TrimSpace(strings.Join(content, "\n")), sections
}

func stripFrontmatter(lines []string) []string {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontmatterDelim {
		return lines
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelim {
			return lines[i+1:]
		}
	}
	// Unterminated block: treat the whole document as body.
	return lines
}

func sectionHeader(line string) (string, bool) {
	if !strings.HasPrefix(line, "## ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(line, "## ")), true
}
