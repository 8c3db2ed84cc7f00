// Package reactionroles grants a role when members react to the configured
// messages with the configured emoji.
package reactionroles

import (
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/umbra/akane/internal/models"
	"github.com/umbra/akane/pkg/bot"
	"github.com/umbra/akane/pkg/cache"
	"github.com/umbra/akane/pkg/store"
)

type Cog struct {
	store   *store.Store
	configs *cache.Cache[*models.ReactionRoleConfig]
}

func New(s *store.Store) *Cog {
	return &Cog{
		store:   s,
		configs: cache.NewTTL[*models.ReactionRoleConfig](1024, 10*time.Minute),
	}
}

func (c *Cog) Name() string {
	return "ReactionRoles"
}

func (c *Cog) Register(b *bot.Bot) error {
	group := &bot.Command{
		Name:      "reactionrole",
		Aliases:   []string{"rr"},
		Help:      "Reaction role configuration. Members reacting on watched messages get the role.",
		GuildOnly: true,
		ModOnly:   true,
		Run:       c.show,
	}
	group.Subcommand(&bot.Command{
		Name:  "set",
		Help:  "Sets the role and emoji to hand out.",
		Usage: "reactionrole set <role id> <emoji>",
		Run:   c.set,
	})
	group.Subcommand(&bot.Command{
		Name:  "watch",
		Help:  "Watches a message for reactions.",
		Usage: "reactionrole watch <message id>",
		Run:   c.watch,
	})
	group.Subcommand(&bot.Command{
		Name:  "unwatch",
		Help:  "Stops watching a message.",
		Usage: "reactionrole unwatch <message id>",
		Run:   c.unwatch,
	})
	group.Subcommand(&bot.Command{
		Name: "clear",
		Help: "Removes the whole reaction role setup.",
		Run:  c.clear,
	})
	b.Registry.Register(group)

	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		c.onReactionAdd(b, s, r)
	})
	return nil
}

func (c *Cog) config(b *bot.Bot, guildID string) (*models.ReactionRoleConfig, error) {
	key := "rr:" + guildID
	if cfg, ok := c.configs.Get(key); ok {
		return cfg, nil
	}

	guild, err := strconv.ParseInt(guildID, 10, 64)
	if err != nil {
		return nil, nil
	}
	cfg, err := c.store.ReactionRole(b.Ctx(), guild)
	if err != nil {
		return nil, err
	}
	c.configs.Set(key, cfg)
	return cfg, nil
}

// EmojiMatches compares a reaction against the configured emoji, which can be
// a plain unicode emoji or a custom one in name:id form.
func EmojiMatches(configured string, emoji discordgo.Emoji) bool {
	if configured == "" {
		return false
	}
	if emoji.ID != "" {
		return configured == emoji.APIName() || strings.HasSuffix(configured, ":"+emoji.ID)
	}
	return configured == emoji.Name
}

func (c *Cog) onReactionAdd(b *bot.Bot, s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.GuildID == "" || (s.State.User != nil && r.UserID == s.State.User.ID) {
		return
	}

	cfg, err := c.config(b, r.GuildID)
	if err != nil {
		b.Log.Err(err).Str("guild", r.GuildID).Msg("failed to load reaction role config")
		return
	}
	if cfg == nil || cfg.RoleID == "" {
		return
	}

	watched := false
	for _, id := range cfg.Messages {
		if id == r.MessageID {
			watched = true
			break
		}
	}
	if !watched || !EmojiMatches(cfg.Emoji, r.Emoji) {
		return
	}

	if err := s.GuildMemberRoleAdd(r.GuildID, r.UserID, cfg.RoleID); err != nil {
		b.Log.Err(err).Str("guild", r.GuildID).Str("user", r.UserID).Msg("failed to grant reaction role")
		return
	}

	if cfg.ApprovalChannel != "" {
		s.ChannelMessageSend(cfg.ApprovalChannel, "Gave <@&"+cfg.RoleID+"> to <@"+r.UserID+">.")
	}
}

func (c *Cog) update(ctx *bot.Context, mutate func(*models.ReactionRoleConfig)) error {
	guild, err := strconv.ParseInt(ctx.GuildID(), 10, 64)
	if err != nil {
		return err
	}

	cfg, err := c.store.ReactionRole(ctx.Ctx, guild)
	if err != nil {
		return err
	}
	if cfg == nil {
		cfg = &models.ReactionRoleConfig{}
	}
	mutate(cfg)

	if err := c.store.SetReactionRole(ctx.Ctx, guild, *cfg); err != nil {
		return err
	}
	c.configs.Invalidate("rr:" + ctx.GuildID())
	return nil
}

func (c *Cog) show(ctx *bot.Context) error {
	guild, err := strconv.ParseInt(ctx.GuildID(), 10, 64)
	if err != nil {
		return err
	}
	cfg, err := c.store.ReactionRole(ctx.Ctx, guild)
	if err != nil {
		return err
	}
	if cfg == nil {
		return ctx.Send("No reaction role set up here. Start with `%sreactionrole set <role id> <emoji>`.", ctx.Prefix)
	}
	return ctx.Send("Reacting with %s on %d watched message(s) grants <@&%s>.", cfg.Emoji, len(cfg.Messages), cfg.RoleID)
}

func (c *Cog) set(ctx *bot.Context) error {
	if len(ctx.Args) != 2 {
		return bot.NewBadArgument("Usage: `%sreactionrole set <role id> <emoji>`", ctx.Prefix)
	}

	roleID := strings.Trim(ctx.Args[0], "<@&>")
	if _, err := strconv.ParseInt(roleID, 10, 64); err != nil {
		return bot.NewBadArgument("%q is not a role ID.", ctx.Args[0])
	}

	err := c.update(ctx, func(cfg *models.ReactionRoleConfig) {
		cfg.RoleID = roleID
		cfg.Emoji = strings.Trim(ctx.Args[1], "<>")
	})
	if err != nil {
		return err
	}
	return ctx.React("✅")
}

func (c *Cog) watch(ctx *bot.Context) error {
	if len(ctx.Args) != 1 {
		return bot.NewBadArgument("Give me one message ID.")
	}
	messageID := ctx.Args[0]
	if _, err := strconv.ParseInt(messageID, 10, 64); err != nil {
		return bot.NewBadArgument("%q is not a message ID.", messageID)
	}

	err := c.update(ctx, func(cfg *models.ReactionRoleConfig) {
		for _, id := range cfg.Messages {
			if id == messageID {
				return
			}
		}
		cfg.Messages = append(cfg.Messages, messageID)
	})
	if err != nil {
		return err
	}
	return ctx.React("✅")
}

func (c *Cog) unwatch(ctx *bot.Context) error {
	if len(ctx.Args) != 1 {
		return bot.NewBadArgument("Give me one message ID.")
	}

	err := c.update(ctx, func(cfg *models.ReactionRoleConfig) {
		var kept []string
		for _, id := range cfg.Messages {
			if id != ctx.Args[0] {
				kept = append(kept, id)
			}
		}
		cfg.Messages = kept
	})
	if err != nil {
		return err
	}
	return ctx.React("✅")
}

func (c *Cog) clear(ctx *bot.Context) error {
	confirm, err := ctx.Prompt("Remove the reaction role setup for this guild?")
	if err != nil {
		return err
	}
	if !confirm {
		return nil
	}

	guild, err := strconv.ParseInt(ctx.GuildID(), 10, 64)
	if err != nil {
		return err
	}
	if err := c.store.RemoveReactionRole(ctx.Ctx, guild); err != nil {
		return err
	}
	c.configs.Invalidate("rr:" + ctx.GuildID())
	return ctx.React("✅")
}
