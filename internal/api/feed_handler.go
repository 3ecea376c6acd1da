package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"skaplSite/internal/feed"
)

// PostSource produces the current blog post list. Implemented by feed.Cache.
type PostSource interface {
	Posts(ctx context.Context) []feed.Post
}

// FeedHandler mirrors the external publishing feed for the blog listing page.
type FeedHandler struct {
	posts    PostSource
	cacheTTL int
}

// NewFeedHandler constructs a FeedHandler. cacheTTLSeconds drives the
// Cache-Control header handed to CDNs and browsers.
func NewFeedHandler(posts PostSource, cacheTTLSeconds int) *FeedHandler {
	return &FeedHandler{posts: posts, cacheTTL: cacheTTLSeconds}
}

// ListPosts handles GET /api/medium-posts. Upstream failures surface as an
// empty array; the frontend substitutes its fallback list.
func (h *FeedHandler) ListPosts(c *gin.Context) {
	posts := h.posts.Posts(c.Request.Context())
	if posts == nil {
		posts = []feed.Post{}
	}

	if h.cacheTTL > 0 {
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d, s-maxage=%d", h.cacheTTL, 2*h.cacheTTL))
	}
	c.JSON(http.StatusOK, posts)
}
