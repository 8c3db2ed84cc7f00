package meta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGreeting(t *testing.T) {
	assert.Equal(t, "You're up late", Greeting(3))
	assert.Equal(t, "Good morning", Greeting(9))
	assert.Equal(t, "Good afternoon", Greeting(14))
	assert.Equal(t, "Good evening", Greeting(21))
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "30 seconds", HumanDuration(30*time.Second))
	assert.Equal(t, "5 minutes", HumanDuration(5*time.Minute))
	assert.Equal(t, "3 hours and 5 minutes", HumanDuration(3*time.Hour+5*time.Minute))
	assert.Equal(t, "2 days, 1 hour and 1 minute", HumanDuration(49*time.Hour+time.Minute))
}
