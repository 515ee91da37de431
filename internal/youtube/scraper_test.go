package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScraper_PageURL(t *testing.T) {
	s := NewScraper(clientConfig("https://www.youtube.com"))

	assert.Equal(t, "https://www.youtube.com/@Example", s.PageURL("@Example"))
	assert.Equal(t, "https://www.youtube.com/@Example", s.PageURL("https://www.youtube.com/@Example/videos"))
	assert.Equal(t, "https://youtube.com/c/Slug", s.PageURL("youtube.com/c/Slug"))
	assert.Equal(t, "https://www.youtube.com/c/Slug", s.PageURL("/c/Slug/featured"))
	assert.Equal(t, "https://www.youtube.com/Example%20Channel", s.PageURL("Example Channel"))
}

func TestExtractChannelID(t *testing.T) {
	embedded := []byte(`<script>var ytInitialData = {"header":{"channelId":"` + testChannelID + `"}}</script>`)
	assert.Equal(t, testChannelID, ExtractChannelID(embedded))

	canonical := []byte(`<html><head><link rel="canonical" href="https://www.youtube.com/channel/` + testChannelID + `"></head></html>`)
	assert.Equal(t, testChannelID, ExtractChannelID(canonical))

	og := []byte(`<html><head><meta property="og:url" content="https://www.youtube.com/channel/` + testChannelID + `"></head></html>`)
	assert.Equal(t, testChannelID, ExtractChannelID(og))

	assert.Empty(t, ExtractChannelID([]byte(`<html><body>consent page</body></html>`)))
}

func TestScraper_ChannelID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		assert.NotEmpty(t, r.Header.Get("Accept-Language"))
		if r.URL.Path == "/@Example" {
			_, _ = w.Write([]byte(`{"channelId":"` + testChannelID + `"}`))
			return
		}
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer srv.Close()

	s := NewScraper(clientConfig(srv.URL))
	id, err := s.ChannelID(context.Background(), "@Example")
	require.NoError(t, err)
	assert.Equal(t, testChannelID, id)

	_, err = s.ChannelID(context.Background(), "@Missing")
	assert.ErrorIs(t, err, ErrChannelNotFound)
}
