package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const embedColour = 0xEC9FED

func (b *Bot) registerHelp() {
	b.Registry.Register(&Command{
		Name:  "help",
		Help:  "Shows help for the bot, a command, or a command group.",
		Usage: "help [command]",
		Run:   b.runHelp,
	})
}

func (b *Bot) runHelp(ctx *Context) error {
	if len(ctx.Args) == 0 {
		return b.sendBotHelp(ctx)
	}

	cmd, rest := b.Registry.Lookup(ctx.Args)
	if cmd == nil || len(rest) > 0 {
		return NewBadArgument("No command called %q found.", strings.Join(ctx.Args, " "))
	}
	return sendCommandHelp(ctx, cmd)
}

func (b *Bot) sendBotHelp(ctx *Context) error {
	embed := &discordgo.MessageEmbed{
		Title:       "Akane Help",
		Description: "Hello! I am a bot written by Umbra#0009 to provide some nice utilities.",
		Color:       embedColour,
	}

	for _, cmd := range b.Registry.Commands() {
		name := cmd.Name
		if len(cmd.subcommands) > 0 {
			name += " ..."
		}
		help := cmd.Help
		if help == "" {
			help = "No description."
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   name,
			Value:  help,
			Inline: true,
		})
	}

	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Use %shelp <command> for more info.", ctx.Prefix),
	}
	return ctx.SendEmbed(embed)
}

func sendCommandHelp(ctx *Context, cmd *Command) error {
	usage := cmd.Usage
	if usage == "" {
		usage = cmd.QualifiedName()
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s%s", ctx.Prefix, usage),
		Description: cmd.Help,
		Color:       embedColour,
	}

	if len(cmd.Aliases) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Aliases",
			Value: strings.Join(cmd.Aliases, ", "),
		})
	}

	if len(cmd.subcommands) > 0 {
		var lines []string
		for _, sub := range cmd.subcommands {
			help := sub.Help
			if help == "" {
				help = "No description."
			}
			lines = append(lines, fmt.Sprintf("`%s`: %s", sub.Name, help))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Subcommands",
			Value: strings.Join(lines, "\n"),
		})
	}

	return ctx.SendEmbed(embed)
}
