package site

import (
	"fmt"
	"html"
	"net/url"
	"strings"
)

// NormalizeURL trims the input and requires an absolute http(s) URL with a host.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("url must start with http:// or https://")
	}
	if u.Host == "" {
		return "", fmt.Errorf("url must include a host")
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// EmbedOptions customises the widget script tag.
type EmbedOptions struct {
	Position string
	Color    string
	Company  string
}

// EmbedSnippet builds the script tag a site owner pastes into their pages.
func EmbedSnippet(widgetBaseURL string, s Site, opts EmbedOptions) string {
	if opts.Position == "" {
		opts.Position = "bottom-right"
	}
	if opts.Color == "" {
		opts.Color = "#2563eb"
	}
	if opts.Company == "" {
		opts.Company = s.Name
	}
	return fmt.Sprintf(
		`<script src="%s/widget.js" data-site-id="%s" data-position="%s" data-color="%s" data-company="%s"></script>`,
		strings.TrimRight(widgetBaseURL, "/"), s.ID, opts.Position, opts.Color, html.EscapeString(opts.Company),
	)
}
