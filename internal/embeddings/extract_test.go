// ABOUTME: Tests for searchable text extraction from journal markdown.
// ABOUTME: Covers frontmatter stripping and section header collection.
package embeddings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sectionedEntry = `---
title: "Test Entry"
date: 2025-05-31T12:00:00.000Z
timestamp: 1717056000000
---

## Feelings

I feel great about this feature implementation.

## Technical Insights

TypeScript interfaces are really powerful for maintaining code quality.`

func TestExtractSearchableTextSections(t *testing.T) {
	text, sections := ExtractSearchableText(sectionedEntry)

	assert.Contains(t, text, "I feel great about this feature implementation")
	assert.Contains(t, text, "TypeScript interfaces are really powerful")
	assert.Equal(t, []string{"Feelings", "Technical Insights"}, sections)
}

func TestExtractSearchableTextDropsFrontmatter(t *testing.T) {
	text, _ := ExtractSearchableText(sectionedEntry)

	for _, banned := range []string{"---", "title:", "date:", "timestamp:", "Test Entry", "1717056000000"} {
		assert.NotContains(t, text, banned)
	}
	assert.NotContains(t, text, "## ")
}

func TestExtractSearchableTextFreeform(t *testing.T) {
	md := "---\ntitle: \"x\"\ndate: 2025-01-01T00:00:00.000Z\ntimestamp: 1\n---\n\nJust thinking through this design problem...\n\nThe key issue is coupling.\n"
	text, sections := ExtractSearchableText(md)

	assert.Equal(t, "Just thinking through this design problem...\n\nThe key issue is coupling.", text)
	assert.Empty(t, sections)
	assert.NotNil(t, sections)
}

func TestExtractSearchableTextMixed(t *testing.T) {
	md := "Some general thoughts.\n\n## Feelings\n\nFeeling productive today\n\n## Feelings\n\nStill productive"
	text, sections := ExtractSearchableText(md)

	assert.Equal(t, []string{"Feelings"}, sections, "headers are listed once, in first-appearance order")
	assert.Equal(t, "Some general thoughts.\n\nFeeling productive today\n\nStill productive", text)
}

func TestExtractSearchableTextEmptyBody(t *testing.T) {
	md := "---\ntitle: \"x\"\ndate: 2025-01-01T00:00:00.000Z\ntimestamp: 1\n---\n\n"
	text, sections := ExtractSearchableText(md)

	assert.Equal(t, "", text)
	assert.Empty(t, sections)
}

func TestExtractSearchableTextUnterminatedFrontmatter(t *testing.T) {
	text, _ := ExtractSearchableText("---\nno closing delimiter here")
	assert.Equal(t, "---\nno closing delimiter here", text)
}

func TestExtractSearchableTextCRLF(t *testing.T) {
	text, sections := ExtractSearchableText("---\r\ntitle: \"x\"\r\n---\r\n\r\n## Feelings\r\nCalm")
	assert.Equal(t, "Calm", text)
	assert.Equal(t, []string{"Feelings"}, sections)
}
