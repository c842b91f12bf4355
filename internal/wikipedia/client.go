// Package wikipedia fetches translations and infobox fields from the
// MediaWiki API.
package wikipedia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ultimate-geography/ugwp/internal/wikitext"
)

const (
	// DefaultEndpoint is the English Wikipedia action API.
	DefaultEndpoint = "https://en.wikipedia.org/w/api.php"

	// DefaultUserAgent identifies the tool to Wikimedia servers.
	DefaultUserAgent = "ugwp/dev (https://github.com/ultimate-geography/ugwp)"

	// DefaultDelay is the minimum gap between two API calls.
	DefaultDelay = time.Second
)

// ErrNotFound is returned when a page, its langlinks or an infobox field
// does not exist.
var ErrNotFound = errors.New("not found on Wikipedia")

// Client talks to a MediaWiki action API.
type Client struct {
	HTTPClient *http.Client
	endpoint   string
	userAgent  string
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// OptEndpoint sets the action API URL.
func OptEndpoint(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.endpoint = u
		}
	}
}

// OptUserAgent sets the User-Agent header.
func OptUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// OptDelay sets the minimum gap between calls. Zero disables throttling.
func OptDelay(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// NewClient creates a MediaWiki client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		endpoint:  DefaultEndpoint,
		userAgent: DefaultUserAgent,
		limiter:   rate.NewLimiter(rate.Every(DefaultDelay), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type langLinksResponse struct {
	Query struct {
		Pages map[string]struct {
			Title     string  `json:"title"`
			Missing   *string `json:"missing"`
			LangLinks []struct {
				Lang  string `json:"lang"`
				Title string `json:"*"`
			} `json:"langlinks"`
		} `json:"pages"`
	} `json:"query"`
}

// LangLinks returns the titles of the page in other languages, keyed by
// Wikipedia language code.
func (c *Client) LangLinks(ctx context.Context, title string) (map[string]string, error) {
	params := url.Values{
		"action":    {"query"},
		"prop":      {"langlinks"},
		"lllimit":   {"max"},
		"redirects": {"1"},
		"titles":    {title},
	}

	var resp langLinksResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("langlinks for %q: %w", title, err)
	}

	links := make(map[string]string)
	for _, page := range resp.Query.Pages {
		if page.Missing != nil {
			continue
		}
		for _, ll := range page.LangLinks {
			links[ll.Lang] = ll.Title
		}
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("langlinks for %q: %w", title, ErrNotFound)
	}
	return links, nil
}

type parseResponse struct {
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
	Parse struct {
		Title    string `json:"title"`
		Wikitext struct {
			Content string `json:"*"`
		} `json:"wikitext"`
	} `json:"parse"`
}

// Infobox returns the raw markup of an infobox parameter of the page.
func (c *Client) Infobox(ctx context.Context, title, field string) (string, error) {
	params := url.Values{
		"action":    {"parse"},
		"prop":      {"wikitext"},
		"redirects": {"1"},
		"page":      {title},
	}

	var resp parseResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return "", fmt.Errorf("infobox of %q: %w", title, err)
	}
	if resp.Error != nil {
		if resp.Error.Code == "missingtitle" {
			return "", fmt.Errorf("infobox of %q: %w", title, ErrNotFound)
		}
		return "", fmt.Errorf("infobox of %q: %s: %s", title, resp.Error.Code, resp.Error.Info)
	}

	v, ok := wikitext.InfoboxField(resp.Parse.Wikitext.Content, field)
	if !ok {
		return "", fmt.Errorf("infobox field %q of %q: %w", field, title, ErrNotFound)
	}
	return v, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("format", "json")
	u := c.endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	slog.Debug("MediaWiki request", "action", params.Get("action"), "url", u)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
