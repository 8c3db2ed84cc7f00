package welcome

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderWelcome(t *testing.T) {
	got := RenderWelcome("Hey {user}, welcome to {guild}!", "123", "Umbra's Den")
	assert.Equal(t, "Hey <@123>, welcome to Umbra's Den!", got)
}

func TestRenderWelcomeNoPlaceholders(t *testing.T) {
	assert.Equal(t, "plain greeting", RenderWelcome("plain greeting", "123", "g"))
}

func TestRenderWelcomeRepeated(t *testing.T) {
	got := RenderWelcome("{user} {user}", "9", "g")
	assert.Equal(t, "<@9> <@9>", got)
}
