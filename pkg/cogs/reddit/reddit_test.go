package reddit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleListing = `{
	"data": {
		"children": [
			{"data": {"title": "pinned rules", "author": "mod", "stickied": true}},
			{"data": {"title": "a good post", "author": "alice", "permalink": "/r/go/1", "ups": 42, "num_comments": 7, "is_self": true, "selftext": "hello"}},
			{"data": {"title": "spicy", "author": "bob", "over_18": true}},
			{"data": {"title": "a link post", "author": "carol", "url": "https://example.com", "thumbnail": "https://thumb.example.com/t.png"}}
		]
	}
}`

func TestParseListing(t *testing.T) {
	posts, err := ParseListing(strings.NewReader(sampleListing))
	require.NoError(t, err)
	require.Len(t, posts, 4)

	assert.Equal(t, "a good post", posts[1].Title)
	assert.Equal(t, "alice", posts[1].Author)
	assert.Equal(t, 42, posts[1].Ups)
	assert.True(t, posts[1].IsSelf)
	assert.True(t, posts[0].Stickied)
	assert.True(t, posts[2].Over18)
}

func TestParseListingBadJSON(t *testing.T) {
	_, err := ParseListing(strings.NewReader("not json"))
	assert.Error(t, err)
}

func TestFilterPosts(t *testing.T) {
	posts, err := ParseListing(strings.NewReader(sampleListing))
	require.NoError(t, err)

	sfw := FilterPosts(posts, false)
	require.Len(t, sfw, 2, "stickied and NSFW posts are dropped")
	assert.Equal(t, "a good post", sfw[0].Title)
	assert.Equal(t, "a link post", sfw[1].Title)

	nsfw := FilterPosts(posts, true)
	assert.Len(t, nsfw, 3)
}

func TestFilterPostsCap(t *testing.T) {
	var posts []Post
	for i := 0; i < 40; i++ {
		posts = append(posts, Post{Title: "post"})
	}
	assert.Len(t, FilterPosts(posts, false), maxPosts)
}
