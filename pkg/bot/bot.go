package bot

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/umbra/akane/pkg/config"
	"github.com/umbra/akane/pkg/jsonstore"
	"github.com/umbra/akane/pkg/store"
)

// Cog is a feature module. Register wires its commands, listeners and checks
// into the bot.
type Cog interface {
	Name() string
	Register(b *Bot) error
}

// Runner is implemented by cogs with background loops (pollers). The loop
// must exit when ctx is cancelled.
type Runner interface {
	Start(ctx context.Context)
}

// GlobalCheck runs before every command. Returning false blocks the
// invocation silently.
type GlobalCheck func(ctx *Context) (bool, error)

var webhookRe = regexp.MustCompile(`discord(?:app)?\.com/api/webhooks/(\d+)/([\w-]+)`)

type Bot struct {
	Session  *discordgo.Session
	Store    *store.Store
	Config   *config.Config
	Log      zerolog.Logger
	Registry *Registry

	Prefixes  *jsonstore.Store
	Blacklist *jsonstore.Store

	// HTTP is the shared outbound client for the API cogs.
	HTTP      *http.Client
	UserAgent string

	ownerID string
	uptime  time.Time
	spam    *spamControl
	checks  []GlobalCheck
	cogs    []Cog

	runCtx context.Context
	cancel context.CancelFunc

	webhookID    string
	webhookToken string
}

func New(cfg *config.Config, st *store.Store, logger zerolog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %v", err)
	}
	session.Identify.Intents = discordgo.IntentsAll
	session.StateEnabled = true

	prefixes, err := jsonstore.Open(cfg.Bot.PrefixesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open prefixes store: %v", err)
	}
	blacklist, err := jsonstore.Open(cfg.Bot.BlacklistFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open blacklist store: %v", err)
	}

	b := &Bot{
		Session:   session,
		Store:     st,
		Config:    cfg,
		Log:       logger,
		Registry:  NewRegistry(),
		Prefixes:  prefixes,
		Blacklist: blacklist,
		HTTP: &http.Client{
			Timeout:   30 * time.Second,
			Transport: newLimitedTransport(cfg.HTTP.RateLimit),
		},
		UserAgent: cfg.HTTP.UserAgent,
		ownerID:   cfg.Discord.OwnerID,
		spam:      newSpamControl(),
	}

	if m := webhookRe.FindStringSubmatch(cfg.Discord.StatWebhook); m != nil {
		b.webhookID, b.webhookToken = m[1], m[2]
	}

	session.AddHandler(b.onReady)
	session.AddHandler(b.onResumed)
	session.AddHandler(b.onMessageCreate)
	session.AddHandler(b.onGuildCreate)

	b.registerHelp()

	return b, nil
}

func (b *Bot) AddCog(cog Cog) error {
	if err := cog.Register(b); err != nil {
		return fmt.Errorf("failed to load cog %s: %v", cog.Name(), err)
	}
	b.cogs = append(b.cogs, cog)
	return nil
}

func (b *Bot) AddCheck(check GlobalCheck) {
	b.checks = append(b.checks, check)
}

// Start opens the gateway and launches every cog's background loop. It
// returns once the connection is up; Close tears everything down.
func (b *Bot) Start(ctx context.Context) error {
	b.runCtx, b.cancel = context.WithCancel(ctx)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway: %v", err)
	}

	for _, cog := range b.cogs {
		if runner, ok := cog.(Runner); ok {
			go runner.Start(b.runCtx)
		}
	}
	return nil
}

func (b *Bot) Close() error {
	if b.cancel != nil {
		b.cancel()
	}
	return b.Session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if b.uptime.IsZero() {
		b.uptime = time.Now().UTC()
	}
	s.UpdateGameStatus(0, "a!help for help.")
	b.Log.Info().
		Str("user", r.User.Username).
		Str("id", r.User.ID).
		Int("guilds", len(r.Guilds)).
		Msg("ready")
}

func (b *Bot) onResumed(s *discordgo.Session, r *discordgo.Resumed) {
	b.Log.Info().Msg("gateway resumed")
}

// onGuildCreate leaves blacklisted guilds immediately.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if b.IsBlacklisted(g.ID) {
		b.Log.Warn().Str("guild", g.ID).Msg("leaving blacklisted guild")
		s.GuildLeave(g.ID)
	}
}

func (b *Bot) Uptime() time.Time {
	return b.uptime
}

// Ctx is the bot's run context. Event handlers that run outside a command
// invocation use it for store calls.
func (b *Bot) Ctx() context.Context {
	if b.runCtx == nil {
		return context.Background()
	}
	return b.runCtx
}

// TickEmoji maps a tri-state to the bot's custom tick emoji.
func (b *Bot) TickEmoji(ok *bool) string {
	switch {
	case ok == nil:
		return "<:QuestionMaybe:738038828928860269>"
	case *ok:
		return "<:TickYes:735498312861351937>"
	default:
		return "<:CrossNo:735498453181923377>"
	}
}

// GuildPrefixes returns the guild's custom prefixes, or the configured
// defaults.
func (b *Bot) GuildPrefixes(guildID string) []string {
	var prefixes []string
	if err := b.Prefixes.Get(guildID, &prefixes); err == nil && len(prefixes) > 0 {
		return prefixes
	}
	return b.Config.Bot.Prefixes
}

// SetGuildPrefixes persists up to ten unique prefixes for the guild. An empty
// list restores the defaults.
func (b *Bot) SetGuildPrefixes(guildID string, prefixes []string) error {
	if len(prefixes) == 0 {
		err := b.Prefixes.Remove(guildID)
		if err != nil && err != jsonstore.ErrNotFound {
			return err
		}
		return nil
	}
	if len(prefixes) > 10 {
		return NewBadArgument("cannot have more than 10 custom prefixes")
	}

	unique := make(map[string]bool)
	var cleaned []string
	for _, p := range prefixes {
		if !unique[p] {
			unique[p] = true
			cleaned = append(cleaned, p)
		}
	}
	// longest first so "a!!" wins over "a!"
	sort.Sort(sort.Reverse(sort.StringSlice(cleaned)))
	return b.Prefixes.Put(guildID, cleaned)
}

func (b *Bot) IsBlacklisted(id string) bool {
	return b.Blacklist.Contains(id)
}

func (b *Bot) AddToBlacklist(id string) error {
	return b.Blacklist.Put(id, true)
}

func (b *Bot) RemoveFromBlacklist(id string) error {
	err := b.Blacklist.Remove(id)
	if err == jsonstore.ErrNotFound {
		return nil
	}
	return err
}

// resolvePrefix finds which prefix the message used. The bot mention always
// counts as a prefix.
func (b *Bot) resolvePrefix(content, guildID string) (prefix, rest string, ok bool) {
	if user := b.Session.State.User; user != nil {
		for _, mention := range []string{"<@" + user.ID + "> ", "<@!" + user.ID + "> "} {
			if strings.HasPrefix(content, mention) {
				return mention, content[len(mention):], true
			}
		}
	}

	prefixes := b.Config.Bot.Prefixes
	if guildID != "" {
		prefixes = b.GuildPrefixes(guildID)
	}
	for _, p := range prefixes {
		if strings.HasPrefix(content, p) {
			return p, content[len(p):], true
		}
	}
	return "", "", false
}

// stripWords removes the first n whitespace-separated words from s,
// preserving the remainder's internal spacing.
func stripWords(s string, n int) string {
	s = strings.TrimLeft(s, " \t")
	for i := 0; i < n; i++ {
		idx := strings.IndexAny(s, " \t")
		if idx < 0 {
			return ""
		}
		s = strings.TrimLeft(s[idx:], " \t")
	}
	return s
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	prefix, rest, ok := b.resolvePrefix(m.Content, m.GuildID)
	if !ok {
		return
	}

	words := strings.Fields(rest)
	cmd, args := b.Registry.Lookup(words)
	if cmd == nil {
		return
	}

	if b.IsBlacklisted(m.Author.ID) || (m.GuildID != "" && b.IsBlacklisted(m.GuildID)) {
		return
	}

	if m.Author.ID != b.ownerID {
		if spamming, autoblock := b.spam.check(m.Author.ID); spamming {
			b.logSpammer(m, autoblock)
			if autoblock {
				if err := b.AddToBlacklist(m.Author.ID); err != nil {
					b.Log.Err(err).Msg("failed to auto-blacklist spammer")
				}
			}
			return
		}
	}

	ctx := &Context{
		Ctx:     b.runCtx,
		Bot:     b,
		Session: s,
		Message: m.Message,
		Command: cmd,
		Prefix:  prefix,
		Args:    args,
		RawArg:  stripWords(rest, len(words)-len(args)),
	}

	go b.invoke(ctx)
}

func (b *Bot) invoke(ctx *Context) {
	defer func() {
		if r := recover(); r != nil {
			b.Log.Error().
				Interface("panic", r).
				Str("command", ctx.Command.QualifiedName()).
				Msg("command panicked")
		}
	}()

	if err := b.runChecks(ctx); err != nil {
		b.reportError(ctx, err)
		return
	}

	release, err := b.Registry.acquireSlot(ctx.Command, ctx)
	if err != nil {
		b.reportError(ctx, err)
		return
	}
	defer release()

	if err := b.Registry.checkCooldown(ctx.Command, ctx); err != nil {
		b.reportError(ctx, err)
		return
	}

	if err := ctx.Command.Run(ctx); err != nil {
		b.reportError(ctx, err)
	}
}

func (b *Bot) runChecks(ctx *Context) error {
	// subcommands inherit their group's restrictions
	var guildOnly, ownerOnly, modOnly, nsfwOnly bool
	for cmd := ctx.Command; cmd != nil; cmd = cmd.parent {
		guildOnly = guildOnly || cmd.GuildOnly
		ownerOnly = ownerOnly || cmd.OwnerOnly
		modOnly = modOnly || cmd.ModOnly
		nsfwOnly = nsfwOnly || cmd.NSFWOnly
	}

	if guildOnly && !ctx.InGuild() {
		return ErrGuildOnly
	}
	if ownerOnly && !ctx.IsOwner() {
		return ErrOwnerOnly
	}
	if modOnly && !ctx.IsOwner() && !ctx.HasManageGuild() {
		return ErrModOnly
	}
	if nsfwOnly && !ctx.IsNSFW() {
		return ErrNSFWOnly
	}

	for _, check := range b.checks {
		ok, err := check(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSilent
		}
	}
	return nil
}

func (b *Bot) reportError(ctx *Context, err error) {
	switch e := err.(type) {
	case BadArgument:
		ctx.Send(e.Message)
		return
	case OnCooldown:
		ctx.Send("Goodness, didn't you just try this? Try again in %.2f seconds.", e.RetryAfter.Seconds())
		return
	}

	switch err {
	case ErrSilent:
	case ErrMaxConcurrency:
		ctx.Send("Whoa, finish your previous invocation of this first!")
	case ErrGuildOnly:
		ctx.Send("This command cannot be used in private messages.")
	case ErrOwnerOnly, ErrModOnly, ErrNSFWOnly:
		ctx.Send(err.Error())
	default:
		b.Log.Err(err).
			Str("command", ctx.Command.QualifiedName()).
			Str("author", ctx.AuthorID()).
			Msg("command failed")
	}
}

func (b *Bot) logSpammer(m *discordgo.MessageCreate, autoblock bool) {
	event := b.Log.Warn().
		Str("user", m.Author.Username).
		Str("user_id", m.Author.ID).
		Str("guild_id", m.GuildID).
		Bool("autoblock", autoblock)
	event.Msg("user is spamming")

	if !autoblock || b.webhookID == "" {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:     "Auto-blocked Member",
		Color:     0xDDA453,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Member", Value: fmt.Sprintf("%s (ID: %s)", m.Author.Username, m.Author.ID)},
			{Name: "Guild ID", Value: orDash(m.GuildID)},
			{Name: "Channel ID", Value: m.ChannelID},
		},
	}
	_, err := b.Session.WebhookExecute(b.webhookID, b.webhookToken, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		b.Log.Err(err).Msg("failed to post autoblock webhook")
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
