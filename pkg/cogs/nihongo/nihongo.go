// Package nihongo provides Japanese language lookups: kanji details from
// kanjiapi.dev, word searches through the jisho.org API, and extra kanji
// info scraped from the jisho page itself.
package nihongo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bwmarrin/discordgo"
	"github.com/umbra/akane/pkg/bot"
	"github.com/umbra/akane/pkg/format"
)

const (
	kanjiAPIURL    = "https://kanjiapi.dev/v1/kanji/"
	jishoAPIURL    = "https://jisho.org/api/v1/search/words"
	jishoSearchURL = "https://jisho.org/search/"

	embedColour = 0xBC002D
	maxWords    = 10
)

// KanjiEntry is kanjiapi.dev's record for one character.
type KanjiEntry struct {
	Kanji       string   `json:"kanji"`
	Grade       int      `json:"grade"`
	StrokeCount int      `json:"stroke_count"`
	Meanings    []string `json:"meanings"`
	KunReadings []string `json:"kun_readings"`
	OnReadings  []string `json:"on_readings"`
	JLPT        int      `json:"jlpt"`
	Unicode     string   `json:"unicode"`
}

// Word is one jisho search result.
type Word struct {
	Slug     string   `json:"slug"`
	IsCommon bool     `json:"is_common"`
	JLPT     []string `json:"jlpt"`
	Japanese []struct {
		Word    string `json:"word"`
		Reading string `json:"reading"`
	} `json:"japanese"`
	Senses []struct {
		EnglishDefinitions []string `json:"english_definitions"`
		PartsOfSpeech      []string `json:"parts_of_speech"`
	} `json:"senses"`
}

type wordsResponse struct {
	Data []Word `json:"data"`
}

// PageDetails is what the jisho kanji page knows that the API doesn't.
type PageDetails struct {
	Strokes   string
	Grade     string
	Frequency string
	Meanings  string
}

// ParseKanjiPage pulls the detail blocks out of a jisho #kanji search page.
func ParseKanjiPage(r io.Reader) (*PageDetails, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse kanji page: %v", err)
	}

	details := &PageDetails{
		Strokes:   strings.TrimSpace(doc.Find(".kanji-details__stroke_count strong").First().Text()),
		Grade:     strings.TrimSpace(doc.Find(".grade strong").First().Text()),
		Frequency: strings.TrimSpace(doc.Find(".frequency strong").First().Text()),
		Meanings:  strings.TrimSpace(doc.Find(".kanji-details__main-meanings").First().Text()),
	}
	if details.Strokes == "" && details.Meanings == "" {
		return nil, nil
	}
	return details, nil
}

type Cog struct{}

func New() *Cog {
	return &Cog{}
}

func (c *Cog) Name() string {
	return "Nihongo"
}

func (c *Cog) Register(b *bot.Bot) error {
	b.Registry.Register(&bot.Command{
		Name:     "kanji",
		Help:     "Looks a kanji up: readings, meanings, grade and stroke count.",
		Usage:    "kanji <character>",
		Cooldown: &bot.Cooldown{Rate: 2, Per: 10 * time.Second, Bucket: bot.BucketUser},
		Run:      c.kanji,
	})
	b.Registry.Register(&bot.Command{
		Name:     "jisho",
		Aliases:  []string{"define"},
		Help:     "Searches jisho.org for a word, in English or Japanese.",
		Usage:    "jisho <word>",
		Cooldown: &bot.Cooldown{Rate: 2, Per: 10 * time.Second, Bucket: bot.BucketUser},
		Run:      c.jisho,
	})
	return nil
}

func (c *Cog) getJSON(ctx *bot.Context, endpoint string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx.Ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", ctx.Bot.UserAgent)

	resp, err := ctx.Bot.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to reach %s: %v", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	return resp.StatusCode, json.NewDecoder(resp.Body).Decode(out)
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

func (c *Cog) kanji(ctx *bot.Context) error {
	if ctx.RawArg == "" {
		return bot.NewBadArgument("Give me a kanji to look up.")
	}
	char := firstRune(strings.TrimSpace(ctx.RawArg))

	var entry KanjiEntry
	status, err := c.getJSON(ctx, kanjiAPIURL+url.PathEscape(char), &entry)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return bot.NewBadArgument("%q doesn't seem to be a kanji I know.", char)
	}
	if status != http.StatusOK {
		return fmt.Errorf("kanjiapi returned status %d", status)
	}

	embed := &discordgo.MessageEmbed{
		Title: entry.Kanji,
		URL:   jishoSearchURL + url.PathEscape(entry.Kanji+" #kanji"),
		Color: embedColour,
	}
	if len(entry.Meanings) > 0 {
		embed.Description = format.HumanJoin(entry.Meanings, "or")
	}
	if len(entry.KunReadings) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Kun", Value: strings.Join(entry.KunReadings, "、"), Inline: true,
		})
	}
	if len(entry.OnReadings) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "On", Value: strings.Join(entry.OnReadings, "、"), Inline: true,
		})
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Strokes", Value: fmt.Sprintf("%d", entry.StrokeCount), Inline: true,
	})
	if entry.Grade > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Grade", Value: fmt.Sprintf("%d", entry.Grade), Inline: true,
		})
	}
	if entry.JLPT > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "JLPT", Value: fmt.Sprintf("N%d", entry.JLPT), Inline: true,
		})
	}

	// the page carries newspaper frequency, which the API lacks
	if details := c.scrapeDetails(ctx, entry.Kanji); details != nil && details.Frequency != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Newspaper rank", Value: details.Frequency, Inline: true,
		})
	}

	return ctx.SendEmbed(embed)
}

func (c *Cog) scrapeDetails(ctx *bot.Context, kanji string) *PageDetails {
	endpoint := jishoSearchURL + url.PathEscape(kanji+" #kanji")
	req, err := http.NewRequestWithContext(ctx.Ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", ctx.Bot.UserAgent)

	resp, err := ctx.Bot.HTTP.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	details, err := ParseKanjiPage(resp.Body)
	if err != nil {
		ctx.Bot.Log.Err(err).Str("kanji", kanji).Msg("kanji page scrape failed")
		return nil
	}
	return details
}

func (c *Cog) jisho(ctx *bot.Context) error {
	if ctx.RawArg == "" {
		return bot.NewBadArgument("Give me a word to search for.")
	}

	endpoint := jishoAPIURL + "?keyword=" + url.QueryEscape(ctx.RawArg)
	var parsed wordsResponse
	status, err := c.getJSON(ctx, endpoint, &parsed)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("jisho returned status %d", status)
	}
	if len(parsed.Data) == 0 {
		return ctx.Send("No results for %q, sorry.", ctx.RawArg)
	}

	words := parsed.Data
	if len(words) > maxWords {
		words = words[:maxWords]
	}

	var embeds []*discordgo.MessageEmbed
	for _, word := range words {
		embeds = append(embeds, wordEmbed(word))
	}
	return ctx.Paginate(&bot.Pages{Embeds: embeds})
}

func wordEmbed(word Word) *discordgo.MessageEmbed {
	title := word.Slug
	reading := ""
	if len(word.Japanese) > 0 {
		if word.Japanese[0].Word != "" {
			title = word.Japanese[0].Word
		}
		reading = word.Japanese[0].Reading
	}

	embed := &discordgo.MessageEmbed{
		Title: title,
		URL:   "https://jisho.org/word/" + url.PathEscape(word.Slug),
		Color: embedColour,
	}
	if reading != "" && reading != title {
		embed.Description = reading
	}

	for i, sense := range word.Senses {
		if i == 5 {
			break
		}
		name := fmt.Sprintf("%d.", i+1)
		if len(sense.PartsOfSpeech) > 0 {
			name = fmt.Sprintf("%d. (%s)", i+1, strings.Join(sense.PartsOfSpeech, ", "))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  name,
			Value: strings.Join(sense.EnglishDefinitions, "; "),
		})
	}

	var tags []string
	if word.IsCommon {
		tags = append(tags, "common word")
	}
	tags = append(tags, word.JLPT...)
	if len(tags) > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: strings.Join(tags, " · ")}
	}
	return embed
}
