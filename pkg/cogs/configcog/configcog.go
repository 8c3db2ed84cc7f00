// Package configcog manages per-guild bot configuration: ignored members and
// channels, per-channel and guild-wide command rules, custom prefixes, and
// the owner's global blacklist.
package configcog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/umbra/akane/internal/models"
	"github.com/umbra/akane/pkg/bot"
	"github.com/umbra/akane/pkg/cache"
	"github.com/umbra/akane/pkg/format"
	"github.com/umbra/akane/pkg/store"
)

type Cog struct {
	store *store.Store

	perms  *cache.Cache[*resolvedPermissions]
	plonks *cache.Cache[bool]
}

func New(s *store.Store) *Cog {
	return &Cog{
		store:  s,
		perms:  cache.NewTTL[*resolvedPermissions](512, 5*time.Minute),
		plonks: cache.NewTTL[bool](4096, 5*time.Minute),
	}
}

func (c *Cog) Name() string {
	return "Config"
}

func (c *Cog) Register(b *bot.Bot) error {
	group := &bot.Command{
		Name:      "config",
		Help:      "Handles the server or channel permission configuration for the bot.",
		GuildOnly: true,
		ModOnly:   true,
		Run: func(ctx *bot.Context) error {
			return bot.NewBadArgument("See `%shelp config` for the subcommands.", ctx.Prefix)
		},
	}
	group.Subcommand(&bot.Command{
		Name:  "ignore",
		Help:  "Ignores text channels or members from using the bot. Pass `all` to ignore every channel.",
		Usage: "config ignore [entities... | all]",
		Run:   c.configIgnore,
	})
	group.Subcommand(&bot.Command{
		Name:    "unignore",
		Aliases: []string{"unplonk"},
		Help:    "Allows channels or members to use the bot again. Pass `all` to unignore everything.",
		Usage:   "config unignore [entities... | all]",
		Run:     c.configUnignore,
	})
	group.Subcommand(&bot.Command{
		Name:    "ignored",
		Aliases: []string{"plonks"},
		Help:    "An embedded list of all channels and members ignored in this guild.",
		Run:     c.configIgnored,
	})
	group.Subcommand(&bot.Command{
		Name:  "disable",
		Help:  "Disables a command in this guild, or just in one channel.",
		Usage: "config disable [channel] <command | all>",
		Run: func(ctx *bot.Context) error {
			return c.setCommandRule(ctx, false)
		},
	})
	group.Subcommand(&bot.Command{
		Name:  "enable",
		Help:  "Enables a command in this guild, or just in one channel.",
		Usage: "config enable [channel] <command | all>",
		Run: func(ctx *bot.Context) error {
			return c.setCommandRule(ctx, true)
		},
	})
	group.Subcommand(&bot.Command{
		Name: "disabled",
		Help: "Shows the currently configured command rules for this guild.",
		Run:  c.configDisabled,
	})
	b.Registry.Register(group)

	prefix := &bot.Command{
		Name:      "prefix",
		Help:      "Shows the prefixes usable in this guild.",
		GuildOnly: true,
		Run:       c.prefixList,
	}
	prefix.Subcommand(&bot.Command{
		Name:    "add",
		Help:    "Adds a custom prefix for this guild, up to 10.",
		Usage:   "prefix add <prefix>",
		ModOnly: true,
		Run:     c.prefixAdd,
	})
	prefix.Subcommand(&bot.Command{
		Name:    "remove",
		Help:    "Removes a custom prefix from this guild.",
		Usage:   "prefix remove <prefix>",
		ModOnly: true,
		Run:     c.prefixRemove,
	})
	prefix.Subcommand(&bot.Command{
		Name:    "clear",
		Help:    "Clears all custom prefixes, restoring the defaults.",
		ModOnly: true,
		Run:     c.prefixClear,
	})
	b.Registry.Register(prefix)

	b.Registry.Register(&bot.Command{
		Name:      "block",
		Help:      "Blocks a user or guild from using the bot, everywhere.",
		Usage:     "block <id>",
		OwnerOnly: true,
		Run:       c.globalBlock,
	})
	b.Registry.Register(&bot.Command{
		Name:      "unblock",
		Help:      "Unblocks a user or guild.",
		Usage:     "unblock <id>",
		OwnerOnly: true,
		Run:       c.globalUnblock,
	})

	b.AddCheck(c.plonkCheck)
	b.AddCheck(c.permissionCheck)
	return nil
}

func parseSnowflake(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, bot.NewBadArgument("%q is not a valid ID.", s)
	}
	return id, nil
}

// plonkCheck blocks ignored members and channels. Moderators and the owner
// always pass so they cannot lock themselves out.
func (c *Cog) plonkCheck(ctx *bot.Context) (bool, error) {
	if !ctx.InGuild() {
		return true, nil
	}
	if ctx.IsOwner() || ctx.HasManageGuild() {
		return true, nil
	}

	key := fmt.Sprintf("plonk:%s:%s:%s", ctx.GuildID(), ctx.AuthorID(), ctx.ChannelID())
	if plonked, ok := c.plonks.Get(key); ok {
		return !plonked, nil
	}

	guild, err := parseSnowflake(ctx.GuildID())
	if err != nil {
		return true, nil
	}
	author, err := parseSnowflake(ctx.AuthorID())
	if err != nil {
		return true, nil
	}
	channel, err := parseSnowflake(ctx.ChannelID())
	if err != nil {
		return true, nil
	}

	plonked, err := c.store.IsPlonked(ctx.Ctx, guild, author, &channel)
	if err != nil {
		return false, err
	}
	c.plonks.Set(key, plonked)
	return !plonked, nil
}

// permissionCheck enforces the guild's enable/disable command rules.
func (c *Cog) permissionCheck(ctx *bot.Context) (bool, error) {
	if !ctx.InGuild() || ctx.IsOwner() {
		return true, nil
	}

	perms, err := c.resolved(ctx)
	if err != nil {
		return false, err
	}

	channel, err := parseSnowflake(ctx.ChannelID())
	if err != nil {
		return true, nil
	}

	blocked := perms.IsBlocked(ctx.Command.QualifiedName(), channel)
	if blocked != nil && *blocked {
		return false, nil
	}
	return true, nil
}

func (c *Cog) resolved(ctx *bot.Context) (*resolvedPermissions, error) {
	key := "perms:" + ctx.GuildID()
	if perms, ok := c.perms.Get(key); ok {
		return perms, nil
	}

	guild, err := parseSnowflake(ctx.GuildID())
	if err != nil {
		return nil, err
	}
	records, err := c.store.CommandPermissions(ctx.Ctx, guild)
	if err != nil {
		return nil, err
	}
	perms := newResolvedPermissions(records)
	c.perms.Set(key, perms)
	return perms, nil
}

// resolveEntities maps mention/ID args onto plonkable entity IDs. With no
// args the invoking channel is targeted.
func resolveEntities(ctx *bot.Context) ([]int64, error) {
	if len(ctx.Args) == 0 {
		id, err := parseSnowflake(ctx.ChannelID())
		if err != nil {
			return nil, err
		}
		return []int64{id}, nil
	}

	var ids []int64
	for _, arg := range ctx.Args {
		raw, ok := bot.ResolveChannelID(arg)
		if !ok {
			raw, ok = bot.ResolveUserID(arg)
		}
		if !ok {
			return nil, bot.NewBadArgument("I don't know what %q is. Mention a channel or a member.", arg)
		}
		id, err := parseSnowflake(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func guildChannelIDs(ctx *bot.Context) ([]int64, error) {
	channels, err := ctx.Session.GuildChannels(ctx.GuildID())
	if err != nil {
		return nil, fmt.Errorf("failed to list guild channels: %v", err)
	}
	var ids []int64
	for _, ch := range channels {
		if ch.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		id, err := parseSnowflake(ch.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *Cog) configIgnore(ctx *bot.Context) error {
	guild, err := parseSnowflake(ctx.GuildID())
	if err != nil {
		return err
	}

	if len(ctx.Args) == 1 && strings.EqualFold(ctx.Args[0], "all") {
		ids, err := guildChannelIDs(ctx)
		if err != nil {
			return err
		}
		if err := c.store.AddPlonks(ctx.Ctx, guild, ids); err != nil {
			return err
		}
		c.plonks.InvalidateContaining("plonk:" + ctx.GuildID())
		return ctx.Send("Okay, I am now ignoring all %d channels here.", len(ids))
	}

	ids, err := resolveEntities(ctx)
	if err != nil {
		return err
	}
	if err := c.store.AddPlonks(ctx.Ctx, guild, ids); err != nil {
		return err
	}
	c.plonks.InvalidateContaining("plonk:" + ctx.GuildID())
	return ctx.React("✅")
}

func (c *Cog) configUnignore(ctx *bot.Context) error {
	guild, err := parseSnowflake(ctx.GuildID())
	if err != nil {
		return err
	}

	if len(ctx.Args) == 1 && strings.EqualFold(ctx.Args[0], "all") {
		if err := c.store.ClearPlonks(ctx.Ctx, guild); err != nil {
			return err
		}
		c.plonks.InvalidateContaining("plonk:" + ctx.GuildID())
		return ctx.Send("Okay, I am no longer ignoring anything here.")
	}

	ids, err := resolveEntities(ctx)
	if err != nil {
		return err
	}
	if err := c.store.RemovePlonks(ctx.Ctx, guild, ids); err != nil {
		return err
	}
	c.plonks.InvalidateContaining("plonk:" + ctx.GuildID())
	return ctx.React("✅")
}

func (c *Cog) configIgnored(ctx *bot.Context) error {
	guild, err := parseSnowflake(ctx.GuildID())
	if err != nil {
		return err
	}

	entities, err := c.store.Plonks(ctx.Ctx, guild)
	if err != nil {
		return err
	}
	if len(entities) == 0 {
		return ctx.Send("I am not ignoring anything here.")
	}

	var lines []string
	for _, id := range entities {
		// a channel mention renders as-is for members too, the raw ID stays
		// visible either way
		lines = append(lines, fmt.Sprintf("<#%d> / <@%d>", id, id))
	}

	var embeds []*discordgo.MessageEmbed
	for _, page := range format.Group(lines, 15) {
		embeds = append(embeds, &discordgo.MessageEmbed{
			Title:       "Ignored entities",
			Description: strings.Join(page, "\n"),
		})
	}
	return ctx.Paginate(&bot.Pages{Embeds: embeds, DeleteMessageAfter: true})
}

// setCommandRule handles both `config disable` and `config enable`. The first
// argument may optionally name a channel, otherwise the rule is guild-wide.
func (c *Cog) setCommandRule(ctx *bot.Context, whitelist bool) error {
	if len(ctx.Args) == 0 {
		return bot.NewBadArgument("Tell me which command, or `all`.")
	}

	args := ctx.Args
	var channelID *int64
	if raw, ok := bot.ResolveChannelID(args[0]); ok && strings.HasPrefix(args[0], "<#") {
		id, err := parseSnowflake(raw)
		if err != nil {
			return err
		}
		channelID = &id
		args = args[1:]
	}
	if len(args) == 0 {
		return bot.NewBadArgument("Tell me which command, or `all`.")
	}

	name := strings.ToLower(strings.Join(args, " "))
	if name != "all" && !c.knownCommand(ctx.Bot, name) {
		return bot.NewBadArgument("No command called %q found.", name)
	}

	guild, err := parseSnowflake(ctx.GuildID())
	if err != nil {
		return err
	}

	err = c.store.SetCommandPermission(ctx.Ctx, guild, channelID, name, whitelist)
	if err == store.ErrAlreadyConfigured {
		return bot.NewBadArgument("That rule is already set, nothing to do.")
	}
	if err != nil {
		return err
	}

	c.perms.Invalidate("perms:" + ctx.GuildID())
	return ctx.React("✅")
}

func (c *Cog) knownCommand(b *bot.Bot, name string) bool {
	for _, qualified := range b.Registry.WalkNames() {
		if qualified == name {
			return true
		}
	}
	return false
}

func (c *Cog) configDisabled(ctx *bot.Context) error {
	guild, err := parseSnowflake(ctx.GuildID())
	if err != nil {
		return err
	}

	records, err := c.store.CommandPermissions(ctx.Ctx, guild)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return ctx.Send("There are no command rules configured here.")
	}

	table := &format.TabularData{}
	table.SetColumns([]string{"Command", "Where", "State"})
	for _, rec := range records {
		table.AddRow([]string{rec.Name, ruleScope(rec), ruleState(rec)})
	}
	return ctx.Send(format.ToCodeblock(table.Render(), ""))
}

func ruleScope(rec models.CommandConfig) string {
	if rec.ChannelID == nil {
		return "guild"
	}
	return fmt.Sprintf("#%d", *rec.ChannelID)
}

func ruleState(rec models.CommandConfig) string {
	if rec.Whitelist {
		return "enabled"
	}
	return "disabled"
}

func (c *Cog) prefixList(ctx *bot.Context) error {
	prefixes := ctx.Bot.GuildPrefixes(ctx.GuildID())
	quoted := make([]string, len(prefixes))
	for i, p := range prefixes {
		quoted[i] = "`" + p + "`"
	}
	return ctx.Send("The prefixes usable here are %s. Mentioning me always works too!", format.HumanJoin(quoted, "and"))
}

func (c *Cog) prefixAdd(ctx *bot.Context) error {
	if ctx.RawArg == "" {
		return bot.NewBadArgument("Give me a prefix to add.")
	}
	prefixes := ctx.Bot.GuildPrefixes(ctx.GuildID())
	if err := ctx.Bot.SetGuildPrefixes(ctx.GuildID(), append(prefixes, ctx.RawArg)); err != nil {
		return err
	}
	return ctx.React("✅")
}

func (c *Cog) prefixRemove(ctx *bot.Context) error {
	if ctx.RawArg == "" {
		return bot.NewBadArgument("Give me a prefix to remove.")
	}

	prefixes := ctx.Bot.GuildPrefixes(ctx.GuildID())
	var kept []string
	for _, p := range prefixes {
		if p != ctx.RawArg {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(prefixes) {
		return bot.NewBadArgument("%q is not a prefix here.", ctx.RawArg)
	}

	if err := ctx.Bot.SetGuildPrefixes(ctx.GuildID(), kept); err != nil {
		return err
	}
	return ctx.React("✅")
}

func (c *Cog) prefixClear(ctx *bot.Context) error {
	if err := ctx.Bot.SetGuildPrefixes(ctx.GuildID(), nil); err != nil {
		return err
	}
	return ctx.Send("Custom prefixes cleared, the defaults are back.")
}

func (c *Cog) globalBlock(ctx *bot.Context) error {
	if len(ctx.Args) != 1 {
		return bot.NewBadArgument("Give me one user or guild ID.")
	}
	id, ok := bot.ResolveUserID(ctx.Args[0])
	if !ok {
		return bot.NewBadArgument("%q is not a valid ID.", ctx.Args[0])
	}
	if err := ctx.Bot.AddToBlacklist(id); err != nil {
		return err
	}
	return ctx.React("✅")
}

func (c *Cog) globalUnblock(ctx *bot.Context) error {
	if len(ctx.Args) != 1 {
		return bot.NewBadArgument("Give me one user or guild ID.")
	}
	id, ok := bot.ResolveUserID(ctx.Args[0])
	if !ok {
		return bot.NewBadArgument("%q is not a valid ID.", ctx.Args[0])
	}
	if err := ctx.Bot.RemoveFromBlacklist(id); err != nil {
		return err
	}
	return ctx.React("✅")
}
