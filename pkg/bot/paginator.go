package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

const paginatorTimeout = 2 * time.Minute

// Pages is a reaction-driven embed paginator. Only the requesting user can
// turn pages; the controls are removed after the timeout.
type Pages struct {
	Embeds             []*discordgo.MessageEmbed
	DeleteMessageAfter bool

	current int
}

var paginatorControls = []string{"⏮️", "◀️", "▶️", "⏭️", "⏹️"}

// Paginate renders embeds one page at a time. A single page is just sent as
// is, without controls.
func (ctx *Context) Paginate(pages *Pages) error {
	if len(pages.Embeds) == 0 {
		return nil
	}

	for i, embed := range pages.Embeds {
		if embed.Footer == nil {
			embed.Footer = &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Page %d/%d", i+1, len(pages.Embeds)),
			}
		}
	}

	msg, err := ctx.Session.ChannelMessageSendEmbed(ctx.Message.ChannelID, pages.Embeds[0])
	if err != nil {
		return err
	}

	if len(pages.Embeds) == 1 {
		return nil
	}

	for _, emoji := range paginatorControls {
		if err := ctx.Session.MessageReactionAdd(msg.ChannelID, msg.ID, emoji); err != nil {
			return err
		}
	}

	moves := make(chan string, 4)
	remove := ctx.Session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if r.MessageID != msg.ID || r.UserID != ctx.Message.Author.ID {
			return
		}
		select {
		case moves <- r.Emoji.Name:
		default:
		}
		// keep the buttons pressed-once
		s.MessageReactionRemove(r.ChannelID, r.MessageID, r.Emoji.Name, r.UserID)
	})
	defer remove()

	timeout, cancel := context.WithTimeout(ctx.Ctx, paginatorTimeout)
	defer cancel()

	for {
		select {
		case emoji := <-moves:
			next := pages.current
			switch emoji {
			case "⏮️":
				next = 0
			case "◀️":
				next = pages.current - 1
			case "▶️":
				next = pages.current + 1
			case "⏭️":
				next = len(pages.Embeds) - 1
			case "⏹️":
				if pages.DeleteMessageAfter {
					return ctx.Session.ChannelMessageDelete(msg.ChannelID, msg.ID)
				}
				return ctx.Session.MessageReactionsRemoveAll(msg.ChannelID, msg.ID)
			default:
				continue
			}

			if next < 0 || next >= len(pages.Embeds) || next == pages.current {
				continue
			}
			pages.current = next
			if _, err := ctx.Session.ChannelMessageEditEmbed(msg.ChannelID, msg.ID, pages.Embeds[next]); err != nil {
				return err
			}
		case <-timeout.Done():
			ctx.Session.MessageReactionsRemoveAll(msg.ChannelID, msg.ID)
			return nil
		}
	}
}
