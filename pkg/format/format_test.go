package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/umbra/akane/pkg/format"
)

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 todo", format.Plural(1, "todo"))
	assert.Equal(t, "3 todos", format.Plural(3, "todo"))
	assert.Equal(t, "0 todos", format.Plural(0, "todo"))
	assert.Equal(t, "2 entries", format.Plural(2, "entry|entries"))
	assert.Equal(t, "1 entry", format.Plural(1, "entry|entries"))
}

func TestHumanJoin(t *testing.T) {
	assert.Equal(t, "", format.HumanJoin(nil, "or"))
	assert.Equal(t, "a", format.HumanJoin([]string{"a"}, "or"))
	assert.Equal(t, "a or b", format.HumanJoin([]string{"a", "b"}, "or"))
	assert.Equal(t, "a, b and c", format.HumanJoin([]string{"a", "b", "c"}, "and"))
}

func TestGroup(t *testing.T) {
	pages := format.Group([]int{1, 2, 3, 4, 5}, 2)
	assert.Len(t, pages, 3)
	assert.Equal(t, []int{1, 2}, pages[0])
	assert.Equal(t, []int{5}, pages[2])

	assert.Nil(t, format.Group([]int{}, 10))
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "short", format.Shorten("short", 100))
	got := format.Shorten("the quick brown fox jumps over the lazy dog", 20)
	assert.LessOrEqual(t, len(got), 20)
	assert.Contains(t, got, "...")
}

func TestToCodeblock(t *testing.T) {
	assert.Equal(t, "```prolog\nhi\n```", format.ToCodeblock("hi", "prolog"))
	// embedded fences must not terminate the block
	assert.NotContains(t, format.ToCodeblock("a ``` b", "py")[3:], "``` b")
}

func TestCleanEmojis(t *testing.T) {
	cleaned := format.CleanEmojis("<:TickYes:735498312861351937>")
	assert.NotEqual(t, "<:TickYes:735498312861351937>", cleaned)
	assert.Contains(t, cleaned, "TickYes")
}

func TestTabularData(t *testing.T) {
	var table format.TabularData
	table.SetColumns([]string{"Name", "Age"})
	table.AddRows([][]string{{"Alice", "24"}, {"Bob", "19"}})

	rendered := table.Render()
	assert.Contains(t, rendered, "| Alice |")
	assert.Contains(t, rendered, "Name")
	// top border, header, header sep, two rows, bottom border
	assert.Len(t, splitLines(rendered), 6)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
