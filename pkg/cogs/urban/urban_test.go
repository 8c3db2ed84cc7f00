package urban

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanupDefinition(t *testing.T) {
	got := CleanupDefinition("A [doggo] is a [good boy].")
	assert.Equal(t, "A [doggo](http://doggo.urbanup.com) is a [good boy](http://good-boy.urbanup.com).", got)
}

func TestCleanupDefinitionNoRefs(t *testing.T) {
	assert.Equal(t, "plain text", CleanupDefinition("plain text"))
}

func TestCleanupDefinitionTruncates(t *testing.T) {
	long := strings.Repeat("a", 3000)
	got := CleanupDefinition(long)
	assert.True(t, strings.HasSuffix(got, " [...]"))
	assert.LessOrEqual(t, len(got), 2048)
}
