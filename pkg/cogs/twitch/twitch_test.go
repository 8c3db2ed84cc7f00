package twitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkLogins(t *testing.T) {
	logins := []string{"a", "b", "c", "d", "e"}

	chunks := ChunkLogins(logins, 2)
	require.Len(t, chunks, 3)
	assert.Equal(t, []string{"a", "b"}, chunks[0])
	assert.Equal(t, []string{"e"}, chunks[2])

	assert.Nil(t, ChunkLogins(nil, 2))
}

func TestNewClips(t *testing.T) {
	clips := []Clip{
		{ID: "newest"},
		{ID: "middle"},
		{ID: "oldest"},
	}

	fresh := NewClips(clips, []string{"oldest"})
	require.Len(t, fresh, 2)
	// oldest-first so announcements read chronologically
	assert.Equal(t, "middle", fresh[0].ID)
	assert.Equal(t, "newest", fresh[1].ID)

	assert.Empty(t, NewClips(clips, []string{"oldest", "middle", "newest"}))
	assert.Len(t, NewClips(clips, nil), 3)
}
