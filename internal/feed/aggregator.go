package feed

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"skaplSite/internal/config"
)

const fallbackAuthor = "SKAPL Team"

// Aggregator turns the external syndication feed into a bounded list of
// display-ready summaries. Fetch never returns an error: on any network or
// parse failure the caller gets an empty list and substitutes its fallback.
type Aggregator struct {
	parser      *gofeed.Parser
	feedURL     string
	placeholder string
	logger      *slog.Logger
}

// NewAggregator builds an Aggregator for the configured feed.
func NewAggregator(cfg config.FeedConfig, logger *slog.Logger) *Aggregator {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 15 * time.Second}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		parser:      parser,
		feedURL:     cfg.URL,
		placeholder: cfg.PlaceholderThumbnail,
		logger:      logger,
	}
}

// Fetch downloads and reshapes the feed, preserving its native order.
func (a *Aggregator) Fetch(ctx context.Context) []Post {
	parsed, err := a.parser.ParseURLWithContext(a.feedURL, ctx)
	if err != nil {
		a.logger.Error("fetch feed", slog.String("url", a.feedURL), slog.String("error", err.Error()))
		return []Post{}
	}

	posts := make([]Post, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		posts = append(posts, a.reshape(item))
	}
	return posts
}

func (a *Aggregator) reshape(item *gofeed.Item) Post {
	body := item.Content
	if body == "" {
		body = item.Description
	}

	thumbnail := firstImageURL(body)
	if thumbnail == "" {
		thumbnail = a.placeholder
	}

	title := item.Title
	if title == "" {
		title = "Untitled Post"
	}

	link := item.Link
	if link == "" {
		link = "#"
	}

	pubDate := item.Published
	if pubDate == "" && item.PublishedParsed != nil {
		pubDate = item.PublishedParsed.Format(time.RFC3339)
	}
	if pubDate == "" {
		pubDate = time.Now().UTC().Format(time.RFC3339)
	}

	categories := item.Categories
	if categories == nil {
		categories = []string{}
	}

	return Post{
		Title:      title,
		Link:       link,
		PubDate:    pubDate,
		Content:    excerpt(body),
		Author:     authorOf(item),
		Categories: categories,
		Thumbnail:  thumbnail,
	}
}

// authorOf prefers dc:creator (what Medium emits), then the item author.
func authorOf(item *gofeed.Item) string {
	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0 && item.DublinCoreExt.Creator[0] != "" {
		return item.DublinCoreExt.Creator[0]
	}
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	return fallbackAuthor
}
