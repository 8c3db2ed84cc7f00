package bot

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(author, channel, guild string) *Context {
	return &Context{
		Message: &discordgo.Message{
			Author:    &discordgo.User{ID: author},
			ChannelID: channel,
			GuildID:   guild,
		},
	}
}

func buildRegistry() *Registry {
	r := NewRegistry()

	todo := &Command{Name: "todo", Run: func(*Context) error { return nil }}
	todo.Subcommand(&Command{Name: "list", Run: func(*Context) error { return nil }})
	todo.Subcommand(&Command{Name: "delete", Aliases: []string{"remove", "bin", "done"}, Run: func(*Context) error { return nil }})
	r.Register(todo)

	r.Register(&Command{Name: "roll", Run: func(*Context) error { return nil }})
	return r
}

func TestRegistryLookup(t *testing.T) {
	r := buildRegistry()

	cmd, args := r.Lookup([]string{"todo", "list"})
	require.NotNil(t, cmd)
	assert.Equal(t, "todo list", cmd.QualifiedName())
	assert.Empty(t, args)

	// alias resolution
	cmd, args = r.Lookup([]string{"todo", "bin", "3", "4"})
	require.NotNil(t, cmd)
	assert.Equal(t, "todo delete", cmd.QualifiedName())
	assert.Equal(t, []string{"3", "4"}, args)

	// unknown subcommand falls back to the group with the words as args
	cmd, args = r.Lookup([]string{"todo", "buy", "milk"})
	require.NotNil(t, cmd)
	assert.Equal(t, "todo", cmd.QualifiedName())
	assert.Equal(t, []string{"buy", "milk"}, args)

	// case insensitive
	cmd, _ = r.Lookup([]string{"ROLL"})
	require.NotNil(t, cmd)
	assert.Equal(t, "roll", cmd.Name)

	cmd, _ = r.Lookup([]string{"nope"})
	assert.Nil(t, cmd)
}

func TestWalkNames(t *testing.T) {
	r := buildRegistry()
	names := r.WalkNames()
	assert.Contains(t, names, "todo")
	assert.Contains(t, names, "todo list")
	assert.Contains(t, names, "todo delete")
	assert.Contains(t, names, "roll")
	assert.NotContains(t, names, "todo bin", "aliases are not qualified names")
}

func TestCooldown(t *testing.T) {
	r := NewRegistry()
	cmd := &Command{
		Name:     "list",
		Cooldown: &Cooldown{Rate: 1, Per: time.Minute, Bucket: BucketUser},
	}

	ctx := testContext("1", "10", "100")
	require.NoError(t, r.checkCooldown(cmd, ctx))

	err := r.checkCooldown(cmd, ctx)
	var cooldown OnCooldown
	require.ErrorAs(t, err, &cooldown)
	assert.Greater(t, cooldown.RetryAfter, time.Duration(0))

	// a different user has their own bucket
	other := testContext("2", "10", "100")
	assert.NoError(t, r.checkCooldown(cmd, other))
}

func TestCooldownChannelBucket(t *testing.T) {
	r := NewRegistry()
	cmd := &Command{
		Name:     "timezones",
		Cooldown: &Cooldown{Rate: 1, Per: time.Minute, Bucket: BucketChannel},
	}

	require.NoError(t, r.checkCooldown(cmd, testContext("1", "10", "100")))
	// same channel, different user: still limited
	assert.Error(t, r.checkCooldown(cmd, testContext("2", "10", "100")))
	// different channel is fine
	assert.NoError(t, r.checkCooldown(cmd, testContext("1", "11", "100")))
}

func TestMaxConcurrency(t *testing.T) {
	r := NewRegistry()
	cmd := &Command{Name: "list", MaxConcurrency: 1}
	ctx := testContext("1", "10", "100")

	release, err := r.acquireSlot(cmd, ctx)
	require.NoError(t, err)

	_, err = r.acquireSlot(cmd, ctx)
	assert.ErrorIs(t, err, ErrMaxConcurrency)

	release()
	release2, err := r.acquireSlot(cmd, ctx)
	require.NoError(t, err)
	release2()
}

func TestStripWords(t *testing.T) {
	assert.Equal(t, "buy  milk", stripWords("todo add buy  milk", 2))
	assert.Equal(t, "", stripWords("todo", 2))
	assert.Equal(t, "todo", stripWords("  todo", 0))
}
