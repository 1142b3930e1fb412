package telegram

import (
	"strings"
	"unicode/utf8"
)

// SplitMessage splits a message into chunks of maxLen characters,
// trying to split at newlines when possible.
func SplitMessage(text string, maxLen int) []string {
	if utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	for len(text) > 0 {
		if utf8.RuneCountInString(text) <= maxLen {
			parts = append(parts, text)
			break
		}

		runes := []rune(text)
		splitAt := maxLen

		chunk := string(runes[:maxLen])
		lastNewline := strings.LastIndex(chunk, "\n")
		if lastNewline > len(chunk)/2 {
			splitAt = utf8.RuneCountInString(chunk[:lastNewline]) + 1
		}

		parts = append(parts, string(runes[:splitAt]))
		text = string(runes[splitAt:])
	}

	return parts
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

// EscapeMarkdown escapes user or chain supplied text for legacy Markdown.
func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

// InlineCode wraps text in a legacy Markdown code span. Escapes are not
// interpreted inside code, so backticks are dropped instead.
func InlineCode(text string) string {
	return "`" + strings.ReplaceAll(text, "`", "") + "`"
}

// ProgressBar draws percent (0-100) as a bar of width cells.
func ProgressBar(percent, width int) string {
	percent = max(0, min(percent, 100))
	filled := percent * width / 100
	return strings.Repeat("▓", filled) + strings.Repeat("░", width-filled)
}
