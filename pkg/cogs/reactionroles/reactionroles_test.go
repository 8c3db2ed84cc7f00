package reactionroles

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestEmojiMatchesUnicode(t *testing.T) {
	assert.True(t, EmojiMatches("🎉", discordgo.Emoji{Name: "🎉"}))
	assert.False(t, EmojiMatches("🎉", discordgo.Emoji{Name: "✅"}))
}

func TestEmojiMatchesCustom(t *testing.T) {
	custom := discordgo.Emoji{Name: "TickYes", ID: "735498312861351937"}
	assert.True(t, EmojiMatches("TickYes:735498312861351937", custom))
	assert.True(t, EmojiMatches(":TickYes:735498312861351937", custom))
	assert.False(t, EmojiMatches("Other:1", custom))
}

func TestEmojiMatchesEmpty(t *testing.T) {
	assert.False(t, EmojiMatches("", discordgo.Emoji{Name: "🎉"}))
}
