// Package timecog lets members store an IANA timezone and ask what time it is
// for each other. Zone visibility is opt-in per guild.
package timecog

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/umbra/akane/pkg/bot"
	"github.com/umbra/akane/pkg/format"
	"github.com/umbra/akane/pkg/store"
)

type Cog struct {
	store *store.Store
}

func New(s *store.Store) *Cog {
	return &Cog{store: s}
}

func (c *Cog) Name() string {
	return "Time"
}

func (c *Cog) Register(b *bot.Bot) error {
	group := &bot.Command{
		Name:      "time",
		Help:      "Shows the current time for you or another member, if they shared their timezone here.",
		Usage:     "time [member]",
		GuildOnly: true,
		Cooldown:  &bot.Cooldown{Rate: 2, Per: 10 * time.Second, Bucket: bot.BucketChannel},
		Run:       c.timeFor,
	}
	group.Subcommand(&bot.Command{
		Name:  "set",
		Help:  "Sets your timezone and makes it visible in this guild.",
		Usage: "time set <timezone>",
		Run:   c.timeSet,
	})
	group.Subcommand(&bot.Command{
		Name: "remove",
		Help: "Hides your timezone in this guild. Other guilds are unaffected.",
		Run:  c.timeRemove,
	})
	group.Subcommand(&bot.Command{
		Name: "clear",
		Help: "Forgets your timezone everywhere.",
		Run:  c.timeClear,
	})
	b.Registry.Register(group)

	b.Registry.Register(&bot.Command{
		Name:     "timezone",
		Aliases:  []string{"tz"},
		Help:     "Shows the current time in a timezone, like `Europe/London`.",
		Usage:    "timezone <timezone>",
		Cooldown: &bot.Cooldown{Rate: 2, Per: 10 * time.Second, Bucket: bot.BucketChannel},
		Run:      c.timezoneAt,
	})

	// membership data must not outlive the membership
	b.Session.AddHandler(func(s *discordgo.Session, g *discordgo.GuildDelete) {
		guild, err := strconv.ParseInt(g.ID, 10, 64)
		if err != nil {
			return
		}
		if err := c.store.PruneGuildTimezones(b.Ctx(), guild); err != nil {
			b.Log.Err(err).Str("guild", g.ID).Msg("failed to prune guild timezones")
		}
	})

	return nil
}

func snowflake(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, bot.NewBadArgument("%q is not a valid ID.", s)
	}
	return id, nil
}

func (c *Cog) timeFor(ctx *bot.Context) error {
	target := ctx.AuthorID()
	who := "you"
	if len(ctx.Args) > 0 {
		id, ok := bot.ResolveUserID(ctx.Args[0])
		if !ok {
			return bot.NewBadArgument("I can't figure out who %q is.", ctx.Args[0])
		}
		target = id
		who = fmt.Sprintf("<@%s>", id)
	}

	user, err := snowflake(target)
	if err != nil {
		return err
	}
	guild, err := snowflake(ctx.GuildID())
	if err != nil {
		return err
	}

	entry, err := c.store.UserTimezone(ctx.Ctx, user, guild)
	if err != nil {
		return err
	}
	if entry == nil {
		if target == ctx.AuthorID() {
			return ctx.Send("You haven't told me your timezone yet! Use `%stime set <timezone>`.", ctx.Prefix)
		}
		return ctx.Send("%s hasn't shared a timezone in this guild.", who)
	}

	loc, err := time.LoadLocation(entry.Zone)
	if err != nil {
		return fmt.Errorf("failed to load zone %q: %v", entry.Zone, err)
	}

	now := time.Now().In(loc)
	return ctx.Send("It is currently **%s** for %s (`%s`).", now.Format("15:04 on Monday, 02 January"), who, entry.Zone)
}

func (c *Cog) timezoneAt(ctx *bot.Context) error {
	if ctx.RawArg == "" {
		return bot.NewBadArgument("Which timezone? Try `Europe/London`.")
	}

	exact, suggestions, err := c.store.MatchTimezone(ctx.Ctx, ctx.RawArg, 5)
	if err != nil {
		return err
	}
	if exact == "" {
		if len(suggestions) == 0 {
			return bot.NewBadArgument("I don't know that timezone, sorry.")
		}
		quoted := make([]string, 0, len(suggestions))
		for _, s := range suggestions {
			quoted = append(quoted, "`"+s+"`")
		}
		return bot.NewBadArgument("I couldn't find %q. Did you mean %s?", ctx.RawArg, format.HumanJoin(quoted, "or"))
	}

	loc, err := time.LoadLocation(exact)
	if err != nil {
		return fmt.Errorf("failed to load zone %q: %v", exact, err)
	}

	now := time.Now().In(loc)
	return ctx.Send("It is **%s** in `%s`.", now.Format("15:04 on Monday, 02 January"), exact)
}

func (c *Cog) timeSet(ctx *bot.Context) error {
	if ctx.RawArg == "" {
		return bot.NewBadArgument("Give me a timezone, like `Europe/London`.")
	}

	exact, suggestions, err := c.store.MatchTimezone(ctx.Ctx, ctx.RawArg, 5)
	if err != nil {
		return err
	}

	if exact == "" {
		if len(suggestions) == 0 {
			return bot.NewBadArgument("I don't know that timezone, sorry.")
		}
		confirm, err := ctx.Prompt(fmt.Sprintf("I couldn't find %q exactly. Did you mean `%s`?", ctx.RawArg, suggestions[0]))
		if err != nil {
			return err
		}
		if !confirm {
			quoted := make([]string, 0, len(suggestions))
			for _, s := range suggestions {
				quoted = append(quoted, "`"+s+"`")
			}
			return ctx.Send("Closest matches were %s. Try again with one of those.", format.HumanJoin(quoted, "or"))
		}
		exact = suggestions[0]
	}

	user, err := snowflake(ctx.AuthorID())
	if err != nil {
		return err
	}
	guild, err := snowflake(ctx.GuildID())
	if err != nil {
		return err
	}

	if err := c.store.SetUserTimezone(ctx.Ctx, user, guild, exact); err != nil {
		return err
	}
	return ctx.Send("Done! Your timezone is `%s` and it is visible in this guild.", exact)
}

func (c *Cog) timeRemove(ctx *bot.Context) error {
	user, err := snowflake(ctx.AuthorID())
	if err != nil {
		return err
	}
	guild, err := snowflake(ctx.GuildID())
	if err != nil {
		return err
	}

	if err := c.store.RemoveUserTimezone(ctx.Ctx, user, guild); err != nil {
		return err
	}
	return ctx.Send("Your timezone is now hidden in this guild.")
}

func (c *Cog) timeClear(ctx *bot.Context) error {
	confirm, err := ctx.Prompt("This will make me forget your timezone everywhere. Sure?")
	if err != nil {
		return err
	}
	if !confirm {
		return nil
	}

	user, err := snowflake(ctx.AuthorID())
	if err != nil {
		return err
	}
	if err := c.store.ClearUserTimezone(ctx.Ctx, user); err != nil {
		return err
	}
	return ctx.React("✅")
}
