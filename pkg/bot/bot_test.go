package bot

import (
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umbra/akane/pkg/config"
)

func testBot(t *testing.T) *Bot {
	t.Helper()
	tmp := t.TempDir()

	cfg := &config.Config{}
	cfg.Discord.Token = "not-a-real-token"
	cfg.Discord.OwnerID = "155863164544614402"
	cfg.Bot.Prefixes = []string{"a!", "A!"}
	cfg.Bot.PrefixesFile = filepath.Join(tmp, "prefixes.json")
	cfg.Bot.BlacklistFile = filepath.Join(tmp, "blacklist.json")
	cfg.HTTP.UserAgent = "test"

	b, err := New(cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	return b
}

func TestResolvePrefix(t *testing.T) {
	b := testBot(t)

	prefix, rest, ok := b.resolvePrefix("a!todo list", "12345")
	require.True(t, ok)
	assert.Equal(t, "a!", prefix)
	assert.Equal(t, "todo list", rest)

	_, _, ok = b.resolvePrefix("hello there", "12345")
	assert.False(t, ok)

	// mention prefix works regardless of guild prefixes
	b.Session.State.User = &discordgo.User{ID: "999"}
	prefix, rest, ok = b.resolvePrefix("<@999> roll 2d20", "12345")
	require.True(t, ok)
	assert.Equal(t, "<@999> ", prefix)
	assert.Equal(t, "roll 2d20", rest)
}

func TestGuildPrefixes(t *testing.T) {
	b := testBot(t)

	assert.Equal(t, []string{"a!", "A!"}, b.GuildPrefixes("1"))

	require.NoError(t, b.SetGuildPrefixes("1", []string{"?", "!", "?"}))
	// deduped and sorted longest/highest first
	assert.Equal(t, []string{"?", "!"}, b.GuildPrefixes("1"))

	// custom prefix now resolves in that guild only
	_, _, ok := b.resolvePrefix("?ping", "1")
	assert.True(t, ok)
	_, _, ok = b.resolvePrefix("?ping", "2")
	assert.False(t, ok)

	// empty restores defaults
	require.NoError(t, b.SetGuildPrefixes("1", nil))
	assert.Equal(t, []string{"a!", "A!"}, b.GuildPrefixes("1"))

	err := b.SetGuildPrefixes("1", []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"})
	assert.Error(t, err)
}

func TestBlacklist(t *testing.T) {
	b := testBot(t)

	assert.False(t, b.IsBlacklisted("42"))
	require.NoError(t, b.AddToBlacklist("42"))
	assert.True(t, b.IsBlacklisted("42"))
	require.NoError(t, b.RemoveFromBlacklist("42"))
	assert.False(t, b.IsBlacklisted("42"))

	// removing a missing entry is not an error
	assert.NoError(t, b.RemoveFromBlacklist("42"))
}

func TestTickEmoji(t *testing.T) {
	b := testBot(t)
	yes, no := true, false

	assert.Contains(t, b.TickEmoji(&yes), "TickYes")
	assert.Contains(t, b.TickEmoji(&no), "CrossNo")
	assert.Contains(t, b.TickEmoji(nil), "QuestionMaybe")
}
