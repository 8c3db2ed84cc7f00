// Package twitch announces live streams and fresh clips for followed
// streamers. Two background pollers drive the announcements.
package twitch

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/umbra/akane/internal/models"
	"github.com/umbra/akane/pkg/bot"
	"github.com/umbra/akane/pkg/store"
)

const (
	maxAlertsPerGuild = 5
	streamInterval    = 2 * time.Minute
	clipInterval      = 5 * time.Minute
	embedColour       = 0x9146FF
)

type Cog struct {
	store  *store.Store
	client *Client
	bot    *bot.Bot
}

func New(s *store.Store) *Cog {
	return &Cog{store: s}
}

func (c *Cog) Name() string {
	return "Twitch"
}

func (c *Cog) configured() bool {
	return c.bot.Config.Twitch.ClientID != "" && c.bot.Config.Twitch.ClientSecret != ""
}

func (c *Cog) Register(b *bot.Bot) error {
	c.bot = b
	c.client = NewClient(b.HTTP, c.store, b.Config.Twitch.ClientID, b.Config.Twitch.ClientSecret, b.UserAgent)

	group := &bot.Command{
		Name:      "twitch",
		Help:      "Twitch stream alerts for this guild.",
		GuildOnly: true,
		ModOnly:   true,
		Run: func(ctx *bot.Context) error {
			return bot.NewBadArgument("See `%shelp twitch` for the subcommands.", ctx.Prefix)
		},
	}
	group.Subcommand(&bot.Command{
		Name:  "add",
		Help:  "Announce a streamer's streams, in this channel or the given one.",
		Usage: "twitch add <streamer> [channel]",
		Run:   c.alertAdd,
	})
	group.Subcommand(&bot.Command{
		Name:  "remove",
		Help:  "Stop announcing a streamer here.",
		Usage: "twitch remove <streamer>",
		Run:   c.alertRemove,
	})
	group.Subcommand(&bot.Command{
		Name: "list",
		Help: "The streamers announced in this guild.",
		Run:  c.alertList,
	})

	clips := &bot.Command{
		Name: "clips",
		Help: "Follow a streamer's new clips.",
		Run: func(ctx *bot.Context) error {
			return bot.NewBadArgument("See `%shelp twitch clips` for the subcommands.", ctx.Prefix)
		},
	}
	clips.Subcommand(&bot.Command{
		Name:  "add",
		Help:  "Post a streamer's new clips, in this channel or the given one.",
		Usage: "twitch clips add <streamer> [channel]",
		Run:   c.clipAdd,
	})
	clips.Subcommand(&bot.Command{
		Name:  "remove",
		Help:  "Stop following a streamer's clips here.",
		Usage: "twitch clips remove <streamer>",
		Run:   c.clipRemove,
	})
	group.Subcommand(clips)

	b.Registry.Register(group)
	return nil
}

// Start runs the stream and clip pollers until ctx is cancelled.
func (c *Cog) Start(ctx context.Context) {
	if !c.configured() {
		c.bot.Log.Warn().Msg("twitch credentials missing, pollers disabled")
		return
	}

	streams := time.NewTicker(streamInterval)
	clips := time.NewTicker(clipInterval)
	defer streams.Stop()
	defer clips.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-streams.C:
			if err := c.pollStreams(ctx); err != nil {
				c.bot.Log.Err(err).Msg("stream poll failed")
			}
		case <-clips.C:
			if err := c.pollClips(ctx); err != nil {
				c.bot.Log.Err(err).Msg("clip poll failed")
			}
		}
	}
}

func parseIDs(ctx *bot.Context) (guild int64, err error) {
	guild, err = strconv.ParseInt(ctx.GuildID(), 10, 64)
	if err != nil {
		return 0, bot.NewBadArgument("bad guild ID")
	}
	return guild, nil
}

// targetChannel reads an optional trailing channel argument, defaulting to
// the invoking channel.
func targetChannel(ctx *bot.Context, args []string) (int64, error) {
	raw := ctx.ChannelID()
	if len(args) > 0 {
		id, ok := bot.ResolveChannelID(args[len(args)-1])
		if !ok {
			return 0, bot.NewBadArgument("%q is not a channel.", args[len(args)-1])
		}
		raw = id
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (c *Cog) requireConfigured() error {
	if !c.configured() {
		return bot.NewBadArgument("Twitch support is not configured on this bot.")
	}
	return nil
}

func (c *Cog) alertAdd(ctx *bot.Context) error {
	if err := c.requireConfigured(); err != nil {
		return err
	}
	if len(ctx.Args) == 0 {
		return bot.NewBadArgument("Which streamer?")
	}

	guild, err := parseIDs(ctx)
	if err != nil {
		return err
	}

	count, err := c.store.CountTwitchAlerts(ctx.Ctx, guild)
	if err != nil {
		return err
	}
	if count >= maxAlertsPerGuild {
		return bot.NewBadArgument("You already follow %d streamers here, that's the limit.", maxAlertsPerGuild)
	}

	streamer := strings.ToLower(ctx.Args[0])
	user, err := c.client.UserByLogin(ctx.Ctx, streamer)
	if err != nil {
		return err
	}
	if user == nil {
		return bot.NewBadArgument("No Twitch user called %q.", streamer)
	}

	channel, err := targetChannel(ctx, ctx.Args[1:])
	if err != nil {
		return err
	}

	if err := c.store.AddTwitchAlert(ctx.Ctx, guild, channel, streamer); err != nil {
		return err
	}
	return ctx.Send("Done! I'll announce **%s**'s streams in <#%d>.", user.DisplayName, channel)
}

func (c *Cog) alertRemove(ctx *bot.Context) error {
	if len(ctx.Args) == 0 {
		return bot.NewBadArgument("Which streamer?")
	}

	guild, err := parseIDs(ctx)
	if err != nil {
		return err
	}

	removed, err := c.store.RemoveTwitchAlert(ctx.Ctx, guild, strings.ToLower(ctx.Args[0]))
	if err != nil {
		return err
	}
	if removed == 0 {
		return bot.NewBadArgument("I wasn't announcing %q here.", ctx.Args[0])
	}
	return ctx.React("✅")
}

func (c *Cog) alertList(ctx *bot.Context) error {
	guild, err := parseIDs(ctx)
	if err != nil {
		return err
	}

	alerts, err := c.store.TwitchAlertsForGuild(ctx.Ctx, guild)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		return ctx.Send("No stream alerts configured here.")
	}

	var lines []string
	for _, alert := range alerts {
		lines = append(lines, fmt.Sprintf("**%s** in <#%d>", alert.StreamerName, alert.ChannelID))
	}
	return ctx.SendEmbed(&discordgo.MessageEmbed{
		Title:       "Stream alerts",
		Description: strings.Join(lines, "\n"),
		Color:       embedColour,
	})
}

func (c *Cog) clipAdd(ctx *bot.Context) error {
	if err := c.requireConfigured(); err != nil {
		return err
	}
	if len(ctx.Args) == 0 {
		return bot.NewBadArgument("Which streamer?")
	}

	guild, err := parseIDs(ctx)
	if err != nil {
		return err
	}

	streamer := strings.ToLower(ctx.Args[0])
	user, err := c.client.UserByLogin(ctx.Ctx, streamer)
	if err != nil {
		return err
	}
	if user == nil {
		return bot.NewBadArgument("No Twitch user called %q.", streamer)
	}

	channel, err := targetChannel(ctx, ctx.Args[1:])
	if err != nil {
		return err
	}

	if err := c.store.AddClipFollow(ctx.Ctx, guild, channel, user.ID); err != nil {
		return err
	}
	return ctx.Send("Done! New clips of **%s** will show up in <#%d>.", user.DisplayName, channel)
}

func (c *Cog) clipRemove(ctx *bot.Context) error {
	if err := c.requireConfigured(); err != nil {
		return err
	}
	if len(ctx.Args) == 0 {
		return bot.NewBadArgument("Which streamer?")
	}

	guild, err := parseIDs(ctx)
	if err != nil {
		return err
	}

	user, err := c.client.UserByLogin(ctx.Ctx, strings.ToLower(ctx.Args[0]))
	if err != nil {
		return err
	}
	if user == nil {
		return bot.NewBadArgument("No Twitch user called %q.", ctx.Args[0])
	}

	removed, err := c.store.RemoveClipFollow(ctx.Ctx, guild, user.ID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return bot.NewBadArgument("I wasn't following %q's clips here.", ctx.Args[0])
	}
	return ctx.React("✅")
}

// ChunkLogins splits logins into request-sized batches. Helix accepts up to
// 100 user_login parameters per call.
func ChunkLogins(logins []string, size int) [][]string {
	if size <= 0 {
		size = 100
	}
	var chunks [][]string
	for len(logins) > 0 {
		n := size
		if n > len(logins) {
			n = len(logins)
		}
		chunks = append(chunks, logins[:n])
		logins = logins[n:]
	}
	return chunks
}

func (c *Cog) pollStreams(ctx context.Context) error {
	alerts, err := c.store.TwitchAlerts(ctx)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var logins []string
	for _, alert := range alerts {
		if !seen[alert.StreamerName] {
			seen[alert.StreamerName] = true
			logins = append(logins, alert.StreamerName)
		}
	}

	live := make(map[string]Stream)
	for _, chunk := range ChunkLogins(logins, 100) {
		streams, err := c.client.Streams(ctx, chunk)
		if err != nil {
			return err
		}
		for _, stream := range streams {
			if stream.Type == "live" {
				live[stream.UserLogin] = stream
			}
		}
	}

	for _, alert := range alerts {
		stream, ok := live[alert.StreamerName]
		if !ok || !stream.StartedAt.After(alert.LastLiveAt) {
			continue
		}

		c.announceStream(alert, stream)
		if err := c.store.UpdateTwitchAlertState(ctx, alert.ID, stream.GameName, stream.StartedAt); err != nil {
			c.bot.Log.Err(err).Int64("alert", alert.ID).Msg("failed to record stream state")
		}
	}
	return nil
}

func (c *Cog) announceStream(alert models.TwitchAlert, stream Stream) {
	thumbnail := strings.NewReplacer("{width}", "640", "{height}", "360").Replace(stream.ThumbnailURL)

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s is live!", stream.UserName),
		URL:         "https://twitch.tv/" + stream.UserLogin,
		Description: stream.Title,
		Color:       embedColour,
		Image:       &discordgo.MessageEmbedImage{URL: thumbnail},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Playing", Value: orUnknown(stream.GameName), Inline: true},
			{Name: "Viewers", Value: strconv.Itoa(stream.ViewerCount), Inline: true},
		},
		Timestamp: stream.StartedAt.Format(time.RFC3339),
	}

	channel := strconv.FormatInt(alert.ChannelID, 10)
	if _, err := c.bot.Session.ChannelMessageSendEmbed(channel, embed); err != nil {
		c.bot.Log.Err(err).Str("channel", channel).Msg("failed to announce stream")
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// NewClips returns the clips that are not in known yet, oldest first so the
// announcements read chronologically.
func NewClips(clips []Clip, known []string) []Clip {
	seen := make(map[string]bool, len(known))
	for _, id := range known {
		seen[id] = true
	}

	var fresh []Clip
	for i := len(clips) - 1; i >= 0; i-- {
		if !seen[clips[i].ID] {
			fresh = append(fresh, clips[i])
		}
	}
	return fresh
}

func (c *Cog) pollClips(ctx context.Context) error {
	follows, err := c.store.ClipFollows(ctx)
	if err != nil {
		return err
	}

	for _, follow := range follows {
		clips, err := c.client.Clips(ctx, follow.BroadcasterID)
		if err != nil {
			return err
		}

		fresh := NewClips(clips, follow.LastClips)
		if len(fresh) == 0 {
			continue
		}

		// first sight of a broadcaster just primes the list
		announce := len(follow.LastClips) > 0
		channel := strconv.FormatInt(follow.ChannelID, 10)

		merged := follow.LastClips
		for _, clip := range fresh {
			merged = append(merged, clip.ID)
			if !announce {
				continue
			}
			msg := fmt.Sprintf("New clip by **%s**: %s\n%s", clip.CreatorName, clip.Title, clip.URL)
			if _, err := c.bot.Session.ChannelMessageSend(channel, msg); err != nil {
				c.bot.Log.Err(err).Str("channel", channel).Msg("failed to announce clip")
			}
		}

		if err := c.store.UpdateClipList(ctx, follow.ID, merged); err != nil {
			c.bot.Log.Err(err).Int64("follow", follow.ID).Msg("failed to record clip list")
		}
	}
	return nil
}
