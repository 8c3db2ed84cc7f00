package bot

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/umbra/akane/pkg/cache"
	"golang.org/x/time/rate"
)

type BucketType int

const (
	BucketUser BucketType = iota
	BucketChannel
	BucketGuild
)

// Cooldown allows Rate invocations per Per, bucketed per user, channel or
// guild.
type Cooldown struct {
	Rate   int
	Per    time.Duration
	Bucket BucketType
}

// Command is a single invokable command, possibly with subcommands. A group
// command's Run handles bare invocation (usually by showing help).
type Command struct {
	Name    string
	Aliases []string
	Help    string
	Usage   string

	GuildOnly bool
	OwnerOnly bool
	ModOnly   bool
	NSFWOnly  bool

	Cooldown       *Cooldown
	MaxConcurrency int

	Run func(ctx *Context) error

	parent      *Command
	subcommands []*Command
}

func (c *Command) Subcommand(sub *Command) *Command {
	sub.parent = c
	c.subcommands = append(c.subcommands, sub)
	return c
}

// QualifiedName is the full invocation path, e.g. "todo list".
func (c *Command) QualifiedName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.QualifiedName() + " " + c.Name
}

func (c *Command) matches(word string) bool {
	if strings.EqualFold(c.Name, word) {
		return true
	}
	for _, alias := range c.Aliases {
		if strings.EqualFold(alias, word) {
			return true
		}
	}
	return false
}

func (c *Command) Subcommands() []*Command {
	return c.subcommands
}

// Registry holds the top-level commands and the shared cooldown state.
type Registry struct {
	mu       sync.Mutex
	commands []*Command

	cooldowns   *cache.Cache[*rate.Limiter]
	activeRuns  map[string]int
	activeMutex sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		cooldowns:  cache.NewLRU[*rate.Limiter](4096),
		activeRuns: make(map[string]int),
	}
}

func (r *Registry) Register(cmd *Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
}

func (r *Registry) Commands() []*Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Command(nil), r.commands...)
}

// Lookup resolves words to the deepest matching command and returns it with
// the remaining arguments.
func (r *Registry) Lookup(words []string) (*Command, []string) {
	if len(words) == 0 {
		return nil, nil
	}

	var current *Command
	for _, cmd := range r.Commands() {
		if cmd.matches(words[0]) {
			current = cmd
			break
		}
	}
	if current == nil {
		return nil, nil
	}

	rest := words[1:]
	for len(rest) > 0 {
		var next *Command
		for _, sub := range current.subcommands {
			if sub.matches(rest[0]) {
				next = sub
				break
			}
		}
		if next == nil {
			break
		}
		current = next
		rest = rest[1:]
	}
	return current, rest
}

// WalkNames returns every qualified command name, sorted. Used to validate
// names in `config enable/disable`.
func (r *Registry) WalkNames() []string {
	var names []string
	var walk func(prefix string, cmds []*Command)
	walk = func(prefix string, cmds []*Command) {
		for _, cmd := range cmds {
			qualified := cmd.Name
			if prefix != "" {
				qualified = prefix + " " + cmd.Name
			}
			names = append(names, qualified)
			walk(qualified, cmd.subcommands)
		}
	}
	walk("", r.Commands())
	sort.Strings(names)
	return names
}

func (c *Cooldown) key(cmd *Command, ctx *Context) string {
	var bucket string
	switch c.Bucket {
	case BucketChannel:
		bucket = ctx.ChannelID()
	case BucketGuild:
		bucket = ctx.GuildID()
		if bucket == "" {
			bucket = ctx.ChannelID()
		}
	default:
		bucket = ctx.AuthorID()
	}
	return cmd.QualifiedName() + ":" + bucket
}

// checkCooldown consumes one token from the command's bucket, or reports how
// long until the next one.
func (r *Registry) checkCooldown(cmd *Command, ctx *Context) error {
	if cmd.Cooldown == nil {
		return nil
	}

	key := cmd.Cooldown.key(cmd, ctx)
	limiter, ok := r.cooldowns.Get(key)
	if !ok {
		every := cmd.Cooldown.Per / time.Duration(cmd.Cooldown.Rate)
		limiter = rate.NewLimiter(rate.Every(every), cmd.Cooldown.Rate)
		r.cooldowns.Set(key, limiter)
	}

	reservation := limiter.Reserve()
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		return OnCooldown{RetryAfter: delay}
	}
	return nil
}

func (r *Registry) acquireSlot(cmd *Command, ctx *Context) (release func(), err error) {
	if cmd.MaxConcurrency <= 0 {
		return func() {}, nil
	}

	key := cmd.QualifiedName() + ":" + ctx.AuthorID()
	r.activeMutex.Lock()
	defer r.activeMutex.Unlock()

	if r.activeRuns[key] >= cmd.MaxConcurrency {
		return nil, ErrMaxConcurrency
	}
	r.activeRuns[key]++

	return func() {
		r.activeMutex.Lock()
		defer r.activeMutex.Unlock()
		r.activeRuns[key]--
		if r.activeRuns[key] <= 0 {
			delete(r.activeRuns, key)
		}
	}, nil
}
