package feed

// Post is a display-ready summary of one published article. The JSON shape is
// what the blog listing page consumes.
type Post struct {
	Title      string   `json:"title"`
	Link       string   `json:"link"`
	PubDate    string   `json:"pubDate"`
	Content    string   `json:"content"`
	Author     string   `json:"author"`
	Categories []string `json:"categories"`
	Thumbnail  string   `json:"thumbnail"`
}
