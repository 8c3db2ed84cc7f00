package bot

import (
	"errors"
	"fmt"
	"time"
)

// BadArgument is a user mistake; its text goes straight back to the channel.
type BadArgument struct {
	Message string
}

func (e BadArgument) Error() string {
	return e.Message
}

func NewBadArgument(format string, args ...interface{}) error {
	return BadArgument{Message: fmt.Sprintf(format, args...)}
}

// OnCooldown is returned when a command's bucket is exhausted.
type OnCooldown struct {
	RetryAfter time.Duration
}

func (e OnCooldown) Error() string {
	return fmt.Sprintf("on cooldown, retry after %.2fs", e.RetryAfter.Seconds())
}

var (
	// ErrMaxConcurrency means the same user already has this command running.
	ErrMaxConcurrency = errors.New("max concurrency reached")
	// ErrGuildOnly rejects a guild command invoked from a DM.
	ErrGuildOnly = errors.New("this command cannot be used in private messages")
	ErrOwnerOnly = errors.New("this command is owner only")
	ErrModOnly   = errors.New("you need Manage Server permissions to do that")
	ErrNSFWOnly  = errors.New("this content requires an NSFW channel")
	// ErrSilent aborts a command without telling the user anything, e.g. for
	// blocked entities.
	ErrSilent = errors.New("silently ignored")
)
