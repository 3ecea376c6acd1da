package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"skaplSite/internal/config"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:content="http://purl.org/rss/1.0/modules/content/">
  <channel>
    <title>Tech Infra</title>
    <item>
      <title>Grid-Scale Storage in 2024</title>
      <link>https://medium.com/@techinfra/grid-scale-storage</link>
      <pubDate>Mon, 03 Jun 2024 09:00:00 GMT</pubDate>
      <dc:creator>Asha Nair</dc:creator>
      <category>energy</category>
      <category>storage</category>
      <content:encoded><![CDATA[<figure><img src="https://cdn.example.com/battery.jpg"/></figure><p>Utility-scale batteries are finally cheap enough to pair with solar farms at auction prices.</p>]]></content:encoded>
    </item>
    <item>
      <title></title>
      <description><![CDATA[<p>A short note without markup extras.</p>]]></description>
    </item>
  </channel>
</rss>`

func newTestAggregator(t *testing.T, handler http.HandlerFunc) *Aggregator {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewAggregator(config.FeedConfig{
		URL:                  server.URL,
		PlaceholderThumbnail: "/blog-placeholder.jpg",
	}, nil)
}

func TestFetchReshapesItems(t *testing.T) {
	agg := newTestAggregator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	})

	posts := agg.Fetch(context.Background())
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}

	first := posts[0]
	if first.Title != "Grid-Scale Storage in 2024" {
		t.Fatalf("title = %q", first.Title)
	}
	if first.Author != "Asha Nair" {
		t.Fatalf("author = %q, want dc:creator", first.Author)
	}
	if first.Thumbnail != "https://cdn.example.com/battery.jpg" {
		t.Fatalf("thumbnail = %q", first.Thumbnail)
	}
	if len(first.Categories) != 2 {
		t.Fatalf("categories = %v", first.Categories)
	}
	if first.Content == "" || first.Content[len(first.Content)-3:] != "..." {
		t.Fatalf("content not excerpted: %q", first.Content)
	}

	second := posts[1]
	if second.Title != "Untitled Post" {
		t.Fatalf("missing title fallback, got %q", second.Title)
	}
	if second.Link != "#" {
		t.Fatalf("missing link fallback, got %q", second.Link)
	}
	if second.Author != fallbackAuthor {
		t.Fatalf("missing author fallback, got %q", second.Author)
	}
	if second.Thumbnail != "/blog-placeholder.jpg" {
		t.Fatalf("missing thumbnail fallback, got %q", second.Thumbnail)
	}
	if second.Categories == nil {
		t.Fatalf("categories must serialize as [], not null")
	}
}

func TestFetchEmptyFeed(t *testing.T) {
	empty := `<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`
	agg := newTestAggregator(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(empty))
	})

	posts := agg.Fetch(context.Background())
	if posts == nil || len(posts) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", posts)
	}
}

func TestFetchMalformedFeed(t *testing.T) {
	agg := newTestAggregator(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not a feed</html>"))
	})

	posts := agg.Fetch(context.Background())
	if posts == nil || len(posts) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", posts)
	}
}

func TestFetchUpstreamError(t *testing.T) {
	agg := newTestAggregator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	posts := agg.Fetch(context.Background())
	if posts == nil || len(posts) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", posts)
	}
}
