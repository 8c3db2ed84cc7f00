// Package rng provides dice rolls and other randomness commands.
package rng

import (
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/umbra/akane/pkg/bot"
	"github.com/umbra/akane/pkg/format"
)

var diceRe = regexp.MustCompile(`^(\d+)[dD](\d+)$`)

const (
	maxRolls = 15
	maxDice  = 25
	minSides = 2
	maxSides = 1000
)

// DiceRoll is one parsed NdM spec.
type DiceRoll struct {
	Count int
	Sides int
}

// ParseDiceRoll accepts specs like "2d20". A bare "d20" counts as one die.
func ParseDiceRoll(spec string) (DiceRoll, error) {
	if strings.HasPrefix(strings.ToLower(spec), "d") {
		spec = "1" + spec
	}
	m := diceRe.FindStringSubmatch(spec)
	if m == nil {
		return DiceRoll{}, bot.NewBadArgument("%q is not a dice roll. Try something like `2d20`.", spec)
	}

	count, err := strconv.Atoi(m[1])
	if err != nil || count < 1 || count > maxDice {
		return DiceRoll{}, bot.NewBadArgument("I can roll between 1 and %d dice at once.", maxDice)
	}
	sides, err := strconv.Atoi(m[2])
	if err != nil || sides < minSides || sides > maxSides {
		return DiceRoll{}, bot.NewBadArgument("Dice need between %d and %d sides.", minSides, maxSides)
	}
	return DiceRoll{Count: count, Sides: sides}, nil
}

func (d DiceRoll) roll() (rolls []int, total int) {
	for i := 0; i < d.Count; i++ {
		n := rand.Intn(d.Sides) + 1
		rolls = append(rolls, n)
		total += n
	}
	return rolls, total
}

func (d DiceRoll) String() string {
	return fmt.Sprintf("%dd%d", d.Count, d.Sides)
}

type Cog struct{}

func New() *Cog {
	return &Cog{}
}

func (c *Cog) Name() string {
	return "RNG"
}

func (c *Cog) Register(b *bot.Bot) error {
	b.Registry.Register(&bot.Command{
		Name:  "roll",
		Help:  "Roll some dice! Takes up to 15 rolls in standard NdN format.",
		Usage: "roll <dice...>",
		Run:   c.roll,
	})
	b.Registry.Register(&bot.Command{
		Name:    "choose",
		Aliases: []string{"pick"},
		Help:    "Can't decide? Let me! Separate the options with `or`.",
		Usage:   "choose <option> or <option> [or ...]",
		Run:     c.choose,
	})
	b.Registry.Register(&bot.Command{
		Name:    "choosebestof",
		Aliases: []string{"bestof"},
		Help:    "Chooses between options repeatedly and tallies the wins.",
		Usage:   "choosebestof [times] <option> or <option> [or ...]",
		Run:     c.chooseBestOf,
	})
	b.Registry.Register(&bot.Command{
		Name:    "flip",
		Aliases: []string{"coin"},
		Help:    "Flips a coin.",
		Run:     c.flip,
	})

	random := &bot.Command{
		Name: "random",
		Help: "Random things. See the subcommands.",
		Run: func(ctx *bot.Context) error {
			return bot.NewBadArgument("See `%shelp random` for the subcommands.", ctx.Prefix)
		},
	}
	random.Subcommand(&bot.Command{
		Name:  "number",
		Help:  "A random number, between 0 and 100 or the bounds you give.",
		Usage: "random number [min] [max]",
		Run:   c.randomNumber,
	})
	b.Registry.Register(random)
	return nil
}

func (c *Cog) roll(ctx *bot.Context) error {
	specs := ctx.Args
	if len(specs) == 0 {
		specs = []string{"1d6"}
	}
	if len(specs) > maxRolls {
		return bot.NewBadArgument("That's too many rolls, I can do up to %d at once.", maxRolls)
	}

	var lines []string
	for _, spec := range specs {
		dice, err := ParseDiceRoll(spec)
		if err != nil {
			return err
		}
		rolls, total := dice.roll()

		parts := make([]string, len(rolls))
		for i, n := range rolls {
			parts[i] = strconv.Itoa(n)
		}
		lines = append(lines, fmt.Sprintf("**%s**: %s = **%d**", dice, strings.Join(parts, " + "), total))
	}
	return ctx.Send(strings.Join(lines, "\n"))
}

func (c *Cog) choose(ctx *bot.Context) error {
	options := SplitChoices(ctx.RawArg)
	if len(options) < 2 {
		return bot.NewBadArgument("Give me at least two options, separated with `or`.")
	}
	return ctx.Send("I pick... %s!", format.CleanEmojis(options[rand.Intn(len(options))]))
}

// SplitChoices splits free text on the word "or".
func SplitChoices(raw string) []string {
	var options []string
	for _, part := range strings.Split(raw, " or ") {
		if part = strings.TrimSpace(part); part != "" {
			options = append(options, part)
		}
	}
	return options
}

func (c *Cog) chooseBestOf(ctx *bot.Context) error {
	raw := ctx.RawArg
	times := 0
	if len(ctx.Args) > 0 {
		if n, err := strconv.Atoi(ctx.Args[0]); err == nil {
			times = n
			raw = strings.TrimSpace(strings.TrimPrefix(raw, ctx.Args[0]))
		}
	}

	options := SplitChoices(raw)
	if len(options) < 2 {
		return bot.NewBadArgument("Give me at least two options, separated with `or`.")
	}

	if times <= 0 {
		times = len(options)*len(options) + 1
	}
	if times > 10001 {
		times = 10001
	}

	tally := make(map[string]int, len(options))
	for i := 0; i < times; i++ {
		tally[options[rand.Intn(len(options))]]++
	}

	sorted := append([]string(nil), options...)
	sort.Slice(sorted, func(i, j int) bool { return tally[sorted[i]] > tally[sorted[j]] })

	var lines []string
	for i, option := range sorted {
		if i == 10 {
			break
		}
		count := tally[option]
		lines = append(lines, fmt.Sprintf("%d. %s (%d times, %.2f%%)",
			i+1, format.CleanEmojis(option), count, float64(count)/float64(times)*100))
	}
	return ctx.Send(strings.Join(lines, "\n"))
}

func (c *Cog) randomNumber(ctx *bot.Context) error {
	low, high := 0, 100
	var err error
	switch len(ctx.Args) {
	case 0:
	case 1:
		if high, err = strconv.Atoi(ctx.Args[0]); err != nil {
			return bot.NewBadArgument("%q is not a number.", ctx.Args[0])
		}
	default:
		if low, err = strconv.Atoi(ctx.Args[0]); err != nil {
			return bot.NewBadArgument("%q is not a number.", ctx.Args[0])
		}
		if high, err = strconv.Atoi(ctx.Args[1]); err != nil {
			return bot.NewBadArgument("%q is not a number.", ctx.Args[1])
		}
	}
	if low > high {
		low, high = high, low
	}

	return ctx.Send("Random number between %d and %d: **%d**", low, high, low+rand.Intn(high-low+1))
}

func (c *Cog) flip(ctx *bot.Context) error {
	if rand.Intn(2) == 0 {
		return ctx.Send("Heads!")
	}
	return ctx.Send("Tails!")
}
