// Package external looks up packages on third-party registries.
package external

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/umbra/akane/pkg/bot"
	"github.com/umbra/akane/pkg/format"
)

const pypiURL = "https://pypi.org/pypi/%s/json"

// PyPIPackage is the slice of the PyPI JSON API the embed needs.
type PyPIPackage struct {
	Info struct {
		Name         string            `json:"name"`
		Version      string            `json:"version"`
		Summary      string            `json:"summary"`
		Author       string            `json:"author"`
		License      string            `json:"license"`
		HomePage     string            `json:"home_page"`
		PackageURL   string            `json:"package_url"`
		RequiresDist []string          `json:"requires_dist"`
		ProjectURLs  map[string]string `json:"project_urls"`
	} `json:"info"`
}

type Cog struct{}

func New() *Cog {
	return &Cog{}
}

func (c *Cog) Name() string {
	return "External"
}

func (c *Cog) Register(b *bot.Bot) error {
	b.Registry.Register(&bot.Command{
		Name:     "pypi",
		Aliases:  []string{"pip"},
		Help:     "Shows details of a package on PyPI.",
		Usage:    "pypi <package>",
		Cooldown: &bot.Cooldown{Rate: 2, Per: 10 * time.Second, Bucket: bot.BucketUser},
		Run:      c.pypi,
	})
	return nil
}

func (c *Cog) pypi(ctx *bot.Context) error {
	if len(ctx.Args) != 1 {
		return bot.NewBadArgument("Give me one package name.")
	}
	name := strings.ToLower(ctx.Args[0])

	endpoint := fmt.Sprintf(pypiURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx.Ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", ctx.Bot.UserAgent)

	resp, err := ctx.Bot.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach pypi: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return bot.NewBadArgument("No package called %q on PyPI.", name)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pypi returned %s", resp.Status)
	}

	var pkg PyPIPackage
	if err := json.NewDecoder(resp.Body).Decode(&pkg); err != nil {
		return fmt.Errorf("failed to decode pypi response: %v", err)
	}

	return ctx.SendEmbed(PackageEmbed(&pkg))
}

// PackageEmbed renders a PyPI package record.
func PackageEmbed(pkg *PyPIPackage) *discordgo.MessageEmbed {
	info := pkg.Info

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s", info.Name, info.Version),
		URL:         info.PackageURL,
		Description: info.Summary,
		Color:       0x0073B7,
	}

	if info.Author != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Author", Value: info.Author, Inline: true,
		})
	}
	if info.License != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "License", Value: format.Shorten(info.License, 64), Inline: true,
		})
	}
	if info.HomePage != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Homepage", Value: info.HomePage,
		})
	}
	if len(info.RequiresDist) > 0 {
		deps := info.RequiresDist
		if len(deps) > 10 {
			deps = deps[:10]
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Dependencies (%d)", len(info.RequiresDist)),
			Value: format.Shorten(strings.Join(deps, "\n"), 1024),
		})
	}
	return embed
}
