// Package reddit browses subreddit listings through reddit's public JSON
// endpoints.
package reddit

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/umbra/akane/pkg/bot"
	"github.com/umbra/akane/pkg/format"
)

const (
	baseURL  = "https://www.reddit.com"
	maxPosts = 15
)

// Post is one listing entry, trimmed to what the embeds need.
type Post struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Permalink   string `json:"permalink"`
	URL         string `json:"url"`
	SelfText    string `json:"selftext"`
	Thumbnail   string `json:"thumbnail"`
	Ups         int    `json:"ups"`
	NumComments int    `json:"num_comments"`
	Over18      bool   `json:"over_18"`
	Stickied    bool   `json:"stickied"`
	IsSelf      bool   `json:"is_self"`
}

type listing struct {
	Data struct {
		Children []struct {
			Data Post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type aboutResponse struct {
	Data struct {
		DisplayName string `json:"display_name"`
		Over18      bool   `json:"over18"`
		Subscribers int    `json:"subscribers"`
	} `json:"data"`
}

// ParseListing decodes a subreddit listing payload.
func ParseListing(r io.Reader) ([]Post, error) {
	var parsed listing
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %v", err)
	}
	posts := make([]Post, 0, len(parsed.Data.Children))
	for _, child := range parsed.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

// FilterPosts drops stickied posts, drops NSFW posts unless the channel
// allows them, and caps the result.
func FilterPosts(posts []Post, allowNSFW bool) []Post {
	var kept []Post
	for _, post := range posts {
		if post.Stickied {
			continue
		}
		if post.Over18 && !allowNSFW {
			continue
		}
		kept = append(kept, post)
		if len(kept) == maxPosts {
			break
		}
	}
	return kept
}

type Cog struct{}

func New() *Cog {
	return &Cog{}
}

func (c *Cog) Name() string {
	return "Reddit"
}

func (c *Cog) Register(b *bot.Bot) error {
	group := &bot.Command{
		Name:     "reddit",
		Help:     "Browse a subreddit. Defaults to the hot listing.",
		Usage:    "reddit <subreddit>",
		Cooldown: &bot.Cooldown{Rate: 1, Per: 10 * time.Second, Bucket: bot.BucketChannel},
		Run: func(ctx *bot.Context) error {
			return c.listing(ctx, "hot")
		},
	}
	for _, sort := range []string{"hot", "new", "top"} {
		sort := sort
		group.Subcommand(&bot.Command{
			Name:  sort,
			Help:  fmt.Sprintf("The %s posts of a subreddit.", sort),
			Usage: fmt.Sprintf("reddit %s <subreddit>", sort),
			Run: func(ctx *bot.Context) error {
				return c.listing(ctx, sort)
			},
		})
	}
	b.Registry.Register(group)
	return nil
}

func (c *Cog) get(ctx *bot.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx.Ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", ctx.Bot.UserAgent)

	resp, err := ctx.Bot.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach reddit: %v", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return bot.NewBadArgument("That subreddit doesn't seem to exist.")
	case http.StatusForbidden:
		return bot.NewBadArgument("That subreddit is private.")
	default:
		return fmt.Errorf("reddit returned %s", resp.Status)
	}

	if posts, ok := out.(*[]Post); ok {
		parsed, err := ParseListing(resp.Body)
		if err != nil {
			return err
		}
		*posts = parsed
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Cog) listing(ctx *bot.Context, sort string) error {
	if len(ctx.Args) == 0 {
		return bot.NewBadArgument("Which subreddit?")
	}
	sub := strings.TrimPrefix(strings.ToLower(ctx.Args[0]), "r/")

	var about aboutResponse
	if err := c.get(ctx, fmt.Sprintf("/r/%s/about.json", sub), &about); err != nil {
		return err
	}
	if about.Data.Over18 && !ctx.IsNSFW() {
		return bot.NewBadArgument("`r/%s` is NSFW, use an NSFW channel for it.", sub)
	}

	var posts []Post
	if err := c.get(ctx, fmt.Sprintf("/r/%s/%s.json?limit=50", sub, sort), &posts); err != nil {
		return err
	}

	posts = FilterPosts(posts, ctx.IsNSFW())
	if len(posts) == 0 {
		return ctx.Send("Nothing to show from `r/%s`.", sub)
	}

	var embeds []*discordgo.MessageEmbed
	for _, post := range posts {
		embed := &discordgo.MessageEmbed{
			Title: format.Shorten(post.Title, 256),
			URL:   baseURL + post.Permalink,
			Color: 0xFF4500,
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("u/%s  ⬆️ %d  💬 %d", post.Author, post.Ups, post.NumComments),
			},
		}
		if post.IsSelf {
			embed.Description = format.Shorten(post.SelfText, 2000)
		} else {
			embed.Description = post.URL
			if strings.HasPrefix(post.Thumbnail, "http") {
				embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: post.Thumbnail}
			}
		}
		embeds = append(embeds, embed)
	}

	return ctx.Paginate(&bot.Pages{Embeds: embeds, DeleteMessageAfter: true})
}
