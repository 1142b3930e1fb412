package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitMessage("short", 10))

	text := strings.Repeat("a", 8) + "\n" + strings.Repeat("b", 8)
	assert.Equal(t, []string{strings.Repeat("a", 8) + "\n", strings.Repeat("b", 8)}, SplitMessage(text, 10))

	parts := SplitMessage(strings.Repeat("x", 25), 10)
	assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}, parts)
}

func TestSplitMessageMultibyte(t *testing.T) {
	text := strings.Repeat("▓", 15)
	parts := SplitMessage(text, 10)

	assert.Len(t, parts, 2)
	assert.Equal(t, 10, utf8.RuneCountInString(parts[0]))
	assert.Equal(t, text, strings.Join(parts, ""))
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `a\_b \*c\* \`+"`"+`d\[e]`, EscapeMarkdown("a_b *c* `d[e]"))
	assert.Equal(t, "plain", EscapeMarkdown("plain"))
}

func TestInlineCode(t *testing.T) {
	assert.Equal(t, "`0x12_34`", InlineCode("0x12_34"))
	assert.Equal(t, "`0xabc`", InlineCode("0x`abc`"))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░", ProgressBar(0, 10))
	assert.Equal(t, "▓▓▓▓▓░░░░░", ProgressBar(50, 10))
	assert.Equal(t, "▓▓▓▓▓▓▓▓▓▓", ProgressBar(100, 10))
	assert.Equal(t, "▓▓▓▓▓▓▓▓▓▓", ProgressBar(150, 10))
	assert.Equal(t, "░░░░░░░░░░", ProgressBar(-5, 10))
	assert.Equal(t, "▓▓▓░░░░░░░", ProgressBar(39, 10))
}
