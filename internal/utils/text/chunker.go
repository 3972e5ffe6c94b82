// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

package text

import (
	"strings"
	"unicode/utf8"
)

// GitHubBodyLimit is the largest issue or comment body GitHub accepts, in bytes.
const GitHubBodyLimit = 65536

// SplitterConfig holds configuration for text splitting.
type SplitterConfig struct {
	ChunkSize  int
	Separators []string
}

// RecursiveCharacterSplitter splits text recursively by separators so that
// no chunk exceeds ChunkSize bytes.
type RecursiveCharacterSplitter struct {
	config SplitterConfig
}

// NewRecursiveCharacterSplitter creates a splitter that keeps each chunk
// below the given byte limit, preferring paragraph, then line, then word
// boundaries.
func NewRecursiveCharacterSplitter(limit int) *RecursiveCharacterSplitter {
	return &RecursiveCharacterSplitter{
		config: SplitterConfig{
			ChunkSize:  limit,
			Separators: []string{"\n\n", "\n", " "},
		},
	}
}

// SplitText splits a text into chunks. Text within the limit is returned as is.
func (s *RecursiveCharacterSplitter) SplitText(text string) []string {
	if len(text) <= s.config.ChunkSize {
		return []string{text}
	}
	return s.split(text, s.config.Separators)
}

func (s *RecursiveCharacterSplitter) split(text string, separators []string) []string {
	if len(text) <= s.config.ChunkSize {
		return []string{text}
	}

	// Find the first separator present in the text
	separator := ""
	rest := []string(nil)
	for i, sep := range separators {
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}
	if separator == "" {
		return s.hardSplit(text)
	}

	var chunks []string
	current := ""
	for _, part := range strings.Split(text, separator) {
		if len(part) > s.config.ChunkSize {
			if current != "" {
				chunks = append(chunks, current)
				current = ""
			}
			chunks = append(chunks, s.split(part, rest)...)
			continue
		}

		candidate := part
		if current != "" {
			candidate = current + separator + part
		}
		if len(candidate) > s.config.ChunkSize {
			chunks = append(chunks, current)
			current = part
			continue
		}
		current = candidate
	}
	if current != "" {
		chunks = append(chunks, current)
	}

	result := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			result = append(result, c)
		}
	}
	return result
}

// hardSplit cuts text at the limit without breaking a UTF-8 sequence.
func (s *RecursiveCharacterSplitter) hardSplit(text string) []string {
	var chunks []string
	for len(text) > s.config.ChunkSize {
		cut := s.config.ChunkSize
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = s.config.ChunkSize
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
