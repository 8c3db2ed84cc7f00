// Package urban looks words up on Urban Dictionary.
package urban

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/umbra/akane/pkg/bot"
)

const apiURL = "https://api.urbandictionary.com/v0/define"

// bracketed words are cross-references on Urban Dictionary
var crossRefRe = regexp.MustCompile(`\[(.+?)\]`)

type definition struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Example    string `json:"example"`
	Permalink  string `json:"permalink"`
	ThumbsUp   int    `json:"thumbs_up"`
	ThumbsDown int    `json:"thumbs_down"`
}

type defineResponse struct {
	List []definition `json:"list"`
}

type Cog struct{}

func New() *Cog {
	return &Cog{}
}

func (c *Cog) Name() string {
	return "Urban"
}

func (c *Cog) Register(b *bot.Bot) error {
	b.Registry.Register(&bot.Command{
		Name:     "urban",
		Help:     "Searches Urban Dictionary and paginates the results.",
		Usage:    "urban <word>",
		Cooldown: &bot.Cooldown{Rate: 1, Per: 10 * time.Second, Bucket: bot.BucketUser},
		Run:      c.urban,
	})
	return nil
}

// CleanupDefinition turns [bracketed] cross-references into urbanup.com links
// and keeps the text inside Discord's embed limit.
func CleanupDefinition(text string) string {
	cleaned := crossRefRe.ReplaceAllStringFunc(text, func(m string) string {
		word := m[1 : len(m)-1]
		slug := strings.ReplaceAll(word, " ", "-")
		return fmt.Sprintf("[%s](http://%s.urbanup.com)", word, slug)
	})
	if len(cleaned) >= 2048 {
		return cleaned[:2000] + " [...]"
	}
	return cleaned
}

func (c *Cog) fetch(ctx *bot.Context, term string) ([]definition, error) {
	endpoint := apiURL + "?term=" + url.QueryEscape(term)
	req, err := http.NewRequestWithContext(ctx.Ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", ctx.Bot.UserAgent)

	resp, err := ctx.Bot.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach urban dictionary: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("urban dictionary returned %s", resp.Status)
	}

	var parsed defineResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode urban response: %v", err)
	}
	return parsed.List, nil
}

func (c *Cog) urban(ctx *bot.Context) error {
	if ctx.RawArg == "" {
		return bot.NewBadArgument("What word should I look up?")
	}

	defs, err := c.fetch(ctx, ctx.RawArg)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		return ctx.Send("No results found, sorry.")
	}

	var embeds []*discordgo.MessageEmbed
	for _, def := range defs {
		embed := &discordgo.MessageEmbed{
			Title:       def.Word,
			URL:         def.Permalink,
			Description: CleanupDefinition(def.Definition),
			Color:       0x1D2439,
		}
		if example := strings.TrimSpace(def.Example); example != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "Example",
				Value: CleanupDefinition(example),
			})
		}
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("👍 %d  👎 %d", def.ThumbsUp, def.ThumbsDown),
		}
		embeds = append(embeds, embed)
	}

	return ctx.Paginate(&bot.Pages{Embeds: embeds})
}
