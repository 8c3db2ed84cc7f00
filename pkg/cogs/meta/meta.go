// Package meta holds the small commands about the bot itself.
package meta

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/umbra/akane/pkg/bot"
	"github.com/umbra/akane/pkg/format"
)

type Cog struct{}

func New() *Cog {
	return &Cog{}
}

func (c *Cog) Name() string {
	return "Meta"
}

func (c *Cog) Register(b *bot.Bot) error {
	b.Registry.Register(&bot.Command{
		Name:    "hello",
		Aliases: []string{"hi"},
		Help:    "Say hello!",
		Run:     c.hello,
	})
	b.Registry.Register(&bot.Command{
		Name: "about",
		Help: "A little about me.",
		Run:  c.about,
	})
	b.Registry.Register(&bot.Command{
		Name: "uptime",
		Help: "How long I have been awake for.",
		Run:  c.uptime,
	})
	b.Registry.Register(&bot.Command{
		Name:  "avatar",
		Help:  "Shows a member's avatar, or yours.",
		Usage: "avatar [member]",
		Run:   c.avatar,
	})
	b.Registry.Register(&bot.Command{
		Name: "ping",
		Help: "Gateway latency.",
		Run:  c.ping,
	})
	return nil
}

// Greeting picks a salutation for the hour of the day.
func Greeting(hour int) string {
	switch {
	case hour < 6:
		return "You're up late"
	case hour < 12:
		return "Good morning"
	case hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

func (c *Cog) hello(ctx *bot.Context) error {
	return ctx.Send("%s, %s! I'm Akane.", Greeting(time.Now().Hour()), ctx.Message.Author.Username)
}

func (c *Cog) about(ctx *bot.Context) error {
	self := ctx.Session.State.User

	embed := &discordgo.MessageEmbed{
		Title:       "About Akane",
		Description: "A general purpose bot written by Umbra#0009. Timezones, todos, Twitch alerts and other nice things.",
		Color:       0xEC9FED,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Go version", Value: runtime.Version(), Inline: true},
			{Name: "Guilds", Value: fmt.Sprintf("%d", len(ctx.Session.State.Guilds)), Inline: true},
			{Name: "Uptime", Value: HumanDuration(time.Since(ctx.Bot.Uptime())), Inline: true},
		},
	}
	if self != nil {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: self.AvatarURL("256")}
	}
	return ctx.SendEmbed(embed)
}

// HumanDuration renders "2 days, 3 hours and 5 minutes".
func HumanDuration(d time.Duration) string {
	if d < time.Minute {
		return format.Plural(int(d.Seconds()), "second")
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, format.Plural(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, format.Plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, format.Plural(minutes, "minute"))
	}
	return format.HumanJoin(parts, "and")
}

func (c *Cog) uptime(ctx *bot.Context) error {
	if ctx.Bot.Uptime().IsZero() {
		return ctx.Send("I only just woke up, give me a second.")
	}
	return ctx.Send("I have been awake for %s.", HumanDuration(time.Since(ctx.Bot.Uptime())))
}

func (c *Cog) avatar(ctx *bot.Context) error {
	target := ctx.Message.Author
	if len(ctx.Args) > 0 {
		id, ok := bot.ResolveUserID(ctx.Args[0])
		if !ok {
			return bot.NewBadArgument("I can't figure out who %q is.", ctx.Args[0])
		}
		user, err := ctx.Session.User(id)
		if err != nil {
			return bot.NewBadArgument("No user with that ID.")
		}
		target = user
	}

	return ctx.SendEmbed(&discordgo.MessageEmbed{
		Title: target.Username,
		Image: &discordgo.MessageEmbedImage{URL: target.AvatarURL("1024")},
		Color: 0xEC9FED,
	})
}

func (c *Cog) ping(ctx *bot.Context) error {
	return ctx.Send("Pong! Heartbeat latency is %dms.", ctx.Session.HeartbeatLatency().Milliseconds())
}
