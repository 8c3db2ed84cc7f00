package configcog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umbra/akane/internal/models"
)

func int64p(v int64) *int64 { return &v }

func rule(channel *int64, name string, whitelist bool) models.CommandConfig {
	return models.CommandConfig{GuildID: 1, ChannelID: channel, Name: name, Whitelist: whitelist}
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"all", "todo"}, splitNames("todo"))
	assert.Equal(t, []string{"all", "todo", "todo list"}, splitNames("todo list"))
}

func TestIsBlockedGuildWide(t *testing.T) {
	perms := newResolvedPermissions([]models.CommandConfig{
		rule(nil, "roll", false),
	})

	blocked := perms.IsBlocked("roll", 10)
	require.NotNil(t, blocked)
	assert.True(t, *blocked)

	assert.Nil(t, perms.IsBlocked("todo", 10), "unrelated commands have no rule")
}

func TestIsBlockedChannelOverridesGuild(t *testing.T) {
	perms := newResolvedPermissions([]models.CommandConfig{
		rule(nil, "roll", false),
		rule(int64p(10), "roll", true),
	})

	blocked := perms.IsBlocked("roll", 10)
	require.NotNil(t, blocked)
	assert.False(t, *blocked, "channel allow overrides guild deny")

	blocked = perms.IsBlocked("roll", 11)
	require.NotNil(t, blocked)
	assert.True(t, *blocked, "other channels keep the guild deny")
}

func TestIsBlockedSpecificOverridesBroad(t *testing.T) {
	perms := newResolvedPermissions([]models.CommandConfig{
		rule(nil, "todo", false),
		rule(nil, "todo list", true),
	})

	blocked := perms.IsBlocked("todo list", 10)
	require.NotNil(t, blocked)
	assert.False(t, *blocked)

	blocked = perms.IsBlocked("todo add", 10)
	require.NotNil(t, blocked)
	assert.True(t, *blocked, "siblings inherit the group deny")
}

func TestIsBlockedAll(t *testing.T) {
	perms := newResolvedPermissions([]models.CommandConfig{
		rule(int64p(10), "all", false),
		rule(int64p(10), "roll", true),
	})

	blocked := perms.IsBlocked("todo", 10)
	require.NotNil(t, blocked)
	assert.True(t, *blocked)

	blocked = perms.IsBlocked("roll", 10)
	require.NotNil(t, blocked)
	assert.False(t, *blocked, "an explicit allow survives a channel-wide deny")

	assert.Nil(t, perms.IsBlocked("todo", 11))
}

func TestIsBlockedNeverLocksOutConfig(t *testing.T) {
	perms := newResolvedPermissions([]models.CommandConfig{
		rule(nil, "all", false),
	})

	assert.Nil(t, perms.IsBlocked("config disable", 10))
	assert.Nil(t, perms.IsBlocked("prefix add", 10))

	blocked := perms.IsBlocked("roll", 10)
	require.NotNil(t, blocked)
	assert.True(t, *blocked)
}
