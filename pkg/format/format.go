package format

import (
	"fmt"
	"regexp"
	"strings"
)

var customEmojiRe = regexp.MustCompile(`<(a)?:([a-zA-Z0-9_]+):([0-9]+)>`)

// Plural renders "1 todo" / "3 todos". An explicit plural form can be given
// as "singular|plural".
func Plural(value int, word string) string {
	singular, plural, found := strings.Cut(word, "|")
	if !found {
		plural = singular + "s"
	}
	if value == 1 || value == -1 {
		return fmt.Sprintf("%d %s", value, singular)
	}
	return fmt.Sprintf("%d %s", value, plural)
}

// HumanJoin joins a sequence like "a, b or c".
func HumanJoin(seq []string, final string) string {
	switch len(seq) {
	case 0:
		return ""
	case 1:
		return seq[0]
	case 2:
		return fmt.Sprintf("%s %s %s", seq[0], final, seq[1])
	}
	return strings.Join(seq[:len(seq)-1], ", ") + fmt.Sprintf(" %s %s", final, seq[len(seq)-1])
}

// Group splits entries into pages of at most pageLen items.
func Group[T any](entries []T, pageLen int) [][]T {
	if pageLen <= 0 {
		pageLen = 50
	}
	var pages [][]T
	for len(entries) > 0 {
		n := pageLen
		if n > len(entries) {
			n = len(entries)
		}
		pages = append(pages, entries[:n])
		entries = entries[n:]
	}
	return pages
}

// Shorten trims s to at most width runes, appending an ellipsis on a word
// boundary where possible.
func Shorten(s string, width int) string {
	if width < 5 {
		width = 5
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	cut := string(runes[:width-3])
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

func ToCodeblock(content, language string) string {
	content = strings.ReplaceAll(content, "```", "'''")
	return fmt.Sprintf("```%s\n%s\n```", language, content)
}

// CleanEmojis escapes custom emojis so Discord renders them as text.
func CleanEmojis(line string) string {
	return customEmojiRe.ReplaceAllString(line, "<​$1:$2:$3>")
}

// TabularData renders rows as an rST-style grid table:
//
//	+-------+-----+
//	| Name  | Age |
//	+-------+-----+
//	| Alice | 24  |
//	+-------+-----+
type TabularData struct {
	widths  []int
	columns []string
	rows    [][]string
}

func (t *TabularData) SetColumns(columns []string) {
	t.columns = columns
	t.widths = make([]int, len(columns))
	for i, c := range columns {
		t.widths[i] = len(c) + 2
	}
}

func (t *TabularData) AddRow(row []string) {
	t.rows = append(t.rows, row)
	for i, element := range row {
		if i >= len(t.widths) {
			break
		}
		if width := len(element) + 2; width > t.widths[i] {
			t.widths[i] = width
		}
	}
}

func (t *TabularData) AddRows(rows [][]string) {
	for _, row := range rows {
		t.AddRow(row)
	}
}

func (t *TabularData) Render() string {
	var parts []string
	for _, w := range t.widths {
		parts = append(parts, strings.Repeat("-", w))
	}
	sep := "+" + strings.Join(parts, "+") + "+"

	entry := func(row []string) string {
		cells := make([]string, len(row))
		for i, e := range row {
			cells[i] = center(e, t.widths[i])
		}
		return "|" + strings.Join(cells, "|") + "|"
	}

	toDraw := []string{sep, entry(t.columns), sep}
	for _, row := range t.rows {
		toDraw = append(toDraw, entry(row))
	}
	toDraw = append(toDraw, sep)
	return strings.Join(toDraw, "\n")
}

func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
