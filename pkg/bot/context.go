package bot

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

var mentionRe = regexp.MustCompile(`^<@!?(\d+)>$`)

// Context carries one command invocation: the triggering message, the parsed
// arguments, and reply helpers.
type Context struct {
	Ctx     context.Context
	Bot     *Bot
	Session *discordgo.Session
	Message *discordgo.Message
	Command *Command

	Prefix string
	Args   []string
	// RawArg is everything after the command name, unsplit, for commands that
	// take free text.
	RawArg string
}

func (ctx *Context) AuthorID() string {
	return ctx.Message.Author.ID
}

func (ctx *Context) ChannelID() string {
	return ctx.Message.ChannelID
}

func (ctx *Context) GuildID() string {
	return ctx.Message.GuildID
}

func (ctx *Context) InGuild() bool {
	return ctx.Message.GuildID != ""
}

// JumpURL is the permalink to the invoking message.
func (ctx *Context) JumpURL() string {
	guild := ctx.Message.GuildID
	if guild == "" {
		guild = "@me"
	}
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guild, ctx.Message.ChannelID, ctx.Message.ID)
}

func (ctx *Context) Send(format string, args ...interface{}) error {
	content := format
	if len(args) > 0 {
		content = fmt.Sprintf(format, args...)
	}
	_, err := ctx.Session.ChannelMessageSend(ctx.Message.ChannelID, content)
	return err
}

func (ctx *Context) SendEmbed(embed *discordgo.MessageEmbed) error {
	_, err := ctx.Session.ChannelMessageSendEmbed(ctx.Message.ChannelID, embed)
	return err
}

func (ctx *Context) React(emoji string) error {
	return ctx.Session.MessageReactionAdd(ctx.Message.ChannelID, ctx.Message.ID, emoji)
}

// Tick returns the bot's check/cross/question emoji for a tri-state.
func (ctx *Context) Tick(ok *bool) string {
	return ctx.Bot.TickEmoji(ok)
}

// IsOwner reports whether the invoking user owns the bot.
func (ctx *Context) IsOwner() bool {
	return ctx.Bot.ownerID != "" && ctx.Message.Author.ID == ctx.Bot.ownerID
}

// HasManageGuild checks the invoker's resolved guild permissions.
func (ctx *Context) HasManageGuild() bool {
	if !ctx.InGuild() {
		return false
	}
	perms, err := ctx.Session.UserChannelPermissions(ctx.Message.Author.ID, ctx.Message.ChannelID)
	if err != nil {
		return false
	}
	return perms&discordgo.PermissionManageServer != 0 ||
		perms&discordgo.PermissionAdministrator != 0
}

// IsNSFW reports whether the invoking channel allows NSFW content.
func (ctx *Context) IsNSFW() bool {
	channel, err := ctx.Session.State.Channel(ctx.Message.ChannelID)
	if err != nil {
		channel, err = ctx.Session.Channel(ctx.Message.ChannelID)
		if err != nil {
			return false
		}
	}
	return channel.NSFW
}

// ResolveUserID turns a mention or a raw snowflake into a user id.
func ResolveUserID(arg string) (string, bool) {
	if m := mentionRe.FindStringSubmatch(arg); m != nil {
		return m[1], true
	}
	if _, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return arg, true
	}
	return "", false
}

// ResolveChannelID accepts a #channel mention or a raw snowflake.
func ResolveChannelID(arg string) (string, bool) {
	if strings.HasPrefix(arg, "<#") && strings.HasSuffix(arg, ">") {
		id := arg[2 : len(arg)-1]
		if _, err := strconv.ParseInt(id, 10, 64); err == nil {
			return id, true
		}
		return "", false
	}
	if _, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return arg, true
	}
	return "", false
}

// Prompt asks a yes/no question with tick reactions and waits up to 30
// seconds for the invoker to answer.
func (ctx *Context) Prompt(question string) (bool, error) {
	msg, err := ctx.Session.ChannelMessageSend(ctx.Message.ChannelID, question)
	if err != nil {
		return false, err
	}

	yes, no := "✅", "❌"
	for _, emoji := range []string{yes, no} {
		if err := ctx.Session.MessageReactionAdd(msg.ChannelID, msg.ID, emoji); err != nil {
			return false, err
		}
	}

	answer := make(chan bool, 1)
	remove := ctx.Session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if r.MessageID != msg.ID || r.UserID != ctx.Message.Author.ID {
			return
		}
		switch r.Emoji.Name {
		case yes:
			answer <- true
		case no:
			answer <- false
		}
	})
	defer remove()

	timeout, cancel := context.WithTimeout(ctx.Ctx, 30*time.Second)
	defer cancel()
	defer ctx.Session.ChannelMessageDelete(msg.ChannelID, msg.ID)

	select {
	case confirmed := <-answer:
		return confirmed, nil
	case <-timeout.Done():
		return false, nil
	}
}

// WaitForMessage waits for the next message in this channel from the invoker
// that passes check.
func (ctx *Context) WaitForMessage(timeout time.Duration, check func(*discordgo.Message) bool) (*discordgo.Message, error) {
	result := make(chan *discordgo.Message, 1)
	remove := ctx.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.ChannelID != ctx.Message.ChannelID || m.Author.ID != ctx.Message.Author.ID {
			return
		}
		if check == nil || check(m.Message) {
			select {
			case result <- m.Message:
			default:
			}
		}
	})
	defer remove()

	waitCtx, cancel := context.WithTimeout(ctx.Ctx, timeout)
	defer cancel()

	select {
	case msg := <-result:
		return msg, nil
	case <-waitCtx.Done():
		return nil, waitCtx.Err()
	}
}
