package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpamControlAllowsNormalUse(t *testing.T) {
	s := newSpamControl()

	for i := 0; i < spamRate; i++ {
		spamming, autoblock := s.check("user")
		assert.False(t, spamming, "event %d should be allowed", i)
		assert.False(t, autoblock)
	}
}

func TestSpamControlStrikesOut(t *testing.T) {
	s := newSpamControl()

	// burn the bucket
	for i := 0; i < spamRate; i++ {
		s.check("spammer")
	}

	var autoblocked bool
	for i := 0; i < spamAutoBan; i++ {
		spamming, autoblock := s.check("spammer")
		assert.True(t, spamming)
		autoblocked = autoblock
	}
	assert.True(t, autoblocked, "fifth strike should auto-block")

	// other users are unaffected
	spamming, _ := s.check("bystander")
	assert.False(t, spamming)
}
