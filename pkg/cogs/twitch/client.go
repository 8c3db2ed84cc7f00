package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/umbra/akane/pkg/store"
)

const (
	tokenURL = "https://id.twitch.tv/oauth2/token"
	helixURL = "https://api.twitch.tv/helix"
)

// Client talks to the Twitch Helix API with an app access token. The token is
// cached in Postgres so restarts don't burn through token grants.
type Client struct {
	http         *http.Client
	store        *store.Store
	clientID     string
	clientSecret string
	userAgent    string

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewClient(httpClient *http.Client, st *store.Store, clientID, clientSecret, userAgent string) *Client {
	return &Client{
		http:         httpClient,
		store:        st,
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
	}
}

// Stream is one live entry from helix/streams.
type Stream struct {
	UserLogin    string    `json:"user_login"`
	UserName     string    `json:"user_name"`
	GameName     string    `json:"game_name"`
	Title        string    `json:"title"`
	Type         string    `json:"type"`
	ViewerCount  int       `json:"viewer_count"`
	StartedAt    time.Time `json:"started_at"`
	ThumbnailURL string    `json:"thumbnail_url"`
}

type User struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"display_name"`
	ProfileImageURL string `json:"profile_image_url"`
}

type Clip struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	CreatorName string    `json:"creator_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns a valid app token, refreshing via the client
// credentials grant when the cached one is within a minute of expiring.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UTC()
	if c.token != "" && c.expires.After(now.Add(time.Minute)) {
		return c.token, nil
	}

	if secret, err := c.store.TwitchSecret(ctx); err == nil && secret != nil {
		if secret.ExpiresAt.After(now.Add(time.Minute)) {
			c.token, c.expires = secret.Token, secret.ExpiresAt
			return c.token, nil
		}
	}

	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"client_credentials"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch twitch token: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("twitch token endpoint returned %s", resp.Status)
	}

	var parsed tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode twitch token: %v", err)
	}

	c.token = parsed.AccessToken
	c.expires = now.Add(time.Duration(parsed.ExpiresIn) * time.Second)
	if err := c.store.SetTwitchSecret(ctx, c.token, c.expires); err != nil {
		return "", err
	}
	return c.token, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, helixURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach twitch: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// force a refresh on the next call
		c.mu.Lock()
		c.token, c.expires = "", time.Time{}
		c.mu.Unlock()
		return fmt.Errorf("twitch rejected the app token")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("twitch returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Streams returns the live streams among the given logins. Offline logins are
// simply absent from the result.
func (c *Client) Streams(ctx context.Context, logins []string) ([]Stream, error) {
	query := url.Values{}
	for _, login := range logins {
		query.Add("user_login", login)
	}

	var parsed struct {
		Data []Stream `json:"data"`
	}
	if err := c.get(ctx, "/streams", query, &parsed); err != nil {
		return nil, err
	}
	return parsed.Data, nil
}

func (c *Client) UserByLogin(ctx context.Context, login string) (*User, error) {
	var parsed struct {
		Data []User `json:"data"`
	}
	if err := c.get(ctx, "/users", url.Values{"login": {login}}, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) == 0 {
		return nil, nil
	}
	return &parsed.Data[0], nil
}

// Clips returns the broadcaster's most recent clips, newest first.
func (c *Client) Clips(ctx context.Context, broadcasterID string) ([]Clip, error) {
	query := url.Values{
		"broadcaster_id": {broadcasterID},
		"first":          {"25"},
	}
	var parsed struct {
		Data []Clip `json:"data"`
	}
	if err := c.get(ctx, "/clips", query, &parsed); err != nil {
		return nil, err
	}
	return parsed.Data, nil
}
