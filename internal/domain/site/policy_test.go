package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	got, err := NormalizeURL("  https://example.com/  ")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got)

	got, err = NormalizeURL("http://shop.example.com/store")
	require.NoError(t, err)
	assert.Equal(t, "http://shop.example.com/store", got)

	for _, bad := range []string{"", "example.com", "ftp://example.com", "https://", "javascript:alert(1)"} {
		_, err := NormalizeURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestEmbedSnippet(t *testing.T) {
	s := Site{ID: "abc-123", Name: `Acme "Shop"`}

	got := EmbedSnippet("https://quickfeedback.app/", s, EmbedOptions{})
	assert.Equal(t,
		`<script src="https://quickfeedback.app/widget.js" data-site-id="abc-123" data-position="bottom-right" data-color="#2563eb" data-company="Acme &#34;Shop&#34;"></script>`,
		got)

	got = EmbedSnippet("https://quickfeedback.app", s, EmbedOptions{Position: "bottom-left", Color: "#000", Company: "Acme"})
	assert.Contains(t, got, `data-position="bottom-left"`)
	assert.Contains(t, got, `data-color="#000"`)
	assert.Contains(t, got, `data-company="Acme"`)

	got = EmbedSnippet("https://quickfeedback.app", Site{ID: "x", Name: "Tom's R&D <Lab>"}, EmbedOptions{})
	assert.Contains(t, got, `data-company="Tom&#39;s R&amp;D &lt;Lab&gt;"`)
}
