// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package text holds Markdown helpers and body splitting for GitHub issues.
package text

import "fmt"

// TaskItem renders a GitHub task-list line.
func TaskItem(name string, done bool) string {
	if done {
		return "- [x] " + name
	}
	return "- [ ] " + name
}

// Link renders an inline Markdown link.
func Link(name, url string) string {
	return fmt.Sprintf("[%s](%s)", name, url)
}
