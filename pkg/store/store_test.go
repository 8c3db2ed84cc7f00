package store_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umbra/akane/pkg/store"
)

func TestTimezonesEmbed(t *testing.T) {
	zones := store.Timezones()
	require.NotEmpty(t, zones)
	assert.Greater(t, len(zones), 300, "the IANA zone list should be substantial")

	seen := make(map[string]bool)
	for _, zone := range zones {
		assert.NotEmpty(t, zone)
		assert.False(t, strings.ContainsAny(zone, " \t"), "zone %q has whitespace", zone)
		assert.False(t, seen[zone], "duplicate zone %q", zone)
		seen[zone] = true
	}

	assert.True(t, seen["UTC"])
	assert.True(t, seen["America/New_York"])
	assert.True(t, seen["Asia/Tokyo"])
}

func TestMigrationsShape(t *testing.T) {
	steps := store.Migrations()
	require.NotEmpty(t, steps)

	// pg_trgm must exist before the trigram index is created
	assert.Equal(t, "pg_trgm extension", steps[0].Name)
	assert.Equal(t, "timezone seed data", steps[len(steps)-1].Name)

	names := make(map[string]bool)
	for _, step := range steps {
		require.NotNil(t, step.Run, "step %q has no runner", step.Name)
		assert.False(t, names[step.Name], "duplicate step %q", step.Name)
		names[step.Name] = true
	}

	for _, expected := range []string{
		"todos table", "plonks table", "command_config table", "tz_store table",
		"welcome_config table", "twitchtable table", "twitchcliptable table",
		"twitchsecrettable table", "reaction_roles table", "timezones table",
	} {
		assert.True(t, names[expected], "missing migration step %q", expected)
	}
}
