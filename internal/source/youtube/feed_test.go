package youtube

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const channelFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
 <id>yt:channel:C1</id>
 <title>Cracking The Cryptic</title>
 <entry>
  <id>yt:video:OLD</id>
  <yt:videoId>OLD</yt:videoId>
  <title>Older Puzzle</title>
  <published>2024-01-01T12:00:00+00:00</published>
 </entry>
 <entry>
  <id>yt:video:NEW</id>
  <yt:videoId>NEW</yt:videoId>
  <title>Newest Puzzle</title>
  <published>2024-01-02T12:00:00+00:00</published>
 </entry>
</feed>`

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "C1", r.URL.Query().Get("channel_id"))
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFeedResolver_LatestItemID(t *testing.T) {
	srv := serveFeed(t, channelFeed)
	r := NewFeedResolver(srv.URL+"/feeds/videos.xml", time.Second)

	id, err := r.LatestItemID(context.Background(), "C1")

	require.NoError(t, err)
	assert.Equal(t, "NEW", id)
}

func TestFeedResolver_FallsBackToEntryID(t *testing.T) {
	srv := serveFeed(t, `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
 <entry><id>yt:video:ABC</id><title>x</title></entry>
</feed>`)
	r := NewFeedResolver(srv.URL, time.Second)

	id, err := r.LatestItemID(context.Background(), "C1")

	require.NoError(t, err)
	assert.Equal(t, "ABC", id)
}

func TestFeedResolver_EmptyFeed(t *testing.T) {
	srv := serveFeed(t, `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"><title>empty</title></feed>`)
	r := NewFeedResolver(srv.URL, time.Second)

	_, err := r.LatestItemID(context.Background(), "C1")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedResolver_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	r := NewFeedResolver(srv.URL, time.Second)

	_, err := r.LatestItemID(context.Background(), "C1")

	assert.Error(t, err)
}
