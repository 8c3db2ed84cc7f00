// Package welcome greets new members with a configurable per-guild message.
package welcome

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/umbra/akane/pkg/bot"
	"github.com/umbra/akane/pkg/store"
)

type Cog struct {
	store *store.Store
}

func New(s *store.Store) *Cog {
	return &Cog{store: s}
}

func (c *Cog) Name() string {
	return "Welcome"
}

func (c *Cog) Register(b *bot.Bot) error {
	group := &bot.Command{
		Name:      "welcome",
		Help:      "Configure a welcome message for new members.",
		GuildOnly: true,
		ModOnly:   true,
		Run:       c.welcomeShow,
	}
	group.Subcommand(&bot.Command{
		Name:  "set",
		Help:  "Sets the welcome message for a channel. `{user}` mentions the member, `{guild}` names the guild.",
		Usage: "welcome set <channel> <message>",
		Run:   c.welcomeSet,
	})
	group.Subcommand(&bot.Command{
		Name:    "remove",
		Aliases: []string{"off"},
		Help:    "Stops welcoming new members.",
		Run:     c.welcomeRemove,
	})
	b.Registry.Register(group)

	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		c.onMemberAdd(b, s, m)
	})
	return nil
}

// RenderWelcome fills the message template for one member.
func RenderWelcome(template, userID, guildName string) string {
	r := strings.NewReplacer(
		"{user}", "<@"+userID+">",
		"{guild}", guildName,
	)
	return r.Replace(template)
}

func (c *Cog) onMemberAdd(b *bot.Bot, s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil || m.User.Bot {
		return
	}

	guild, err := strconv.ParseInt(m.GuildID, 10, 64)
	if err != nil {
		return
	}

	cfg, err := c.store.Welcome(b.Ctx(), guild)
	if err != nil {
		b.Log.Err(err).Str("guild", m.GuildID).Msg("failed to load welcome config")
		return
	}
	if cfg == nil {
		return
	}

	guildName := m.GuildID
	if g, err := s.State.Guild(m.GuildID); err == nil {
		guildName = g.Name
	}

	channel := strconv.FormatInt(cfg.ChannelID, 10)
	if _, err := s.ChannelMessageSend(channel, RenderWelcome(cfg.Message, m.User.ID, guildName)); err != nil {
		b.Log.Err(err).Str("channel", channel).Msg("failed to send welcome message")
	}
}

func (c *Cog) welcomeShow(ctx *bot.Context) error {
	guild, err := strconv.ParseInt(ctx.GuildID(), 10, 64)
	if err != nil {
		return err
	}

	cfg, err := c.store.Welcome(ctx.Ctx, guild)
	if err != nil {
		return err
	}
	if cfg == nil {
		return ctx.Send("No welcome message set. Use `%swelcome set <channel> <message>`.", ctx.Prefix)
	}
	return ctx.Send("New members in <#%d> get:\n>>> %s", cfg.ChannelID, cfg.Message)
}

func (c *Cog) welcomeSet(ctx *bot.Context) error {
	if len(ctx.Args) < 2 {
		return bot.NewBadArgument("Usage: `%swelcome set <channel> <message>`", ctx.Prefix)
	}

	raw, ok := bot.ResolveChannelID(ctx.Args[0])
	if !ok {
		return bot.NewBadArgument("%q is not a channel.", ctx.Args[0])
	}
	channel, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return err
	}
	guild, err := strconv.ParseInt(ctx.GuildID(), 10, 64)
	if err != nil {
		return err
	}

	message := strings.TrimSpace(strings.TrimPrefix(ctx.RawArg, ctx.Args[0]))
	if err := c.store.SetWelcome(ctx.Ctx, guild, channel, message); err != nil {
		return err
	}
	return ctx.Send("Done! New members will be greeted in <#%d>.", channel)
}

func (c *Cog) welcomeRemove(ctx *bot.Context) error {
	guild, err := strconv.ParseInt(ctx.GuildID(), 10, 64)
	if err != nil {
		return err
	}
	if err := c.store.RemoveWelcome(ctx.Ctx, guild); err != nil {
		return err
	}
	return ctx.React("✅")
}
