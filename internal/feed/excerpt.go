package feed

import (
	"strings"

	"golang.org/x/net/html"
)

const excerptRuneLimit = 200

// excerpt strips markup from an HTML fragment and truncates the plain text
// for the listing preview, appending an ellipsis.
func excerpt(fragment string) string {
	text := strings.Join(strings.Fields(extractText(fragment)), " ")
	runes := []rune(text)
	if len(runes) > excerptRuneLimit {
		runes = runes[:excerptRuneLimit]
	}
	if len(runes) == 0 {
		return ""
	}
	return string(runes) + "..."
}

func extractText(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Text())
			b.WriteByte(' ')
		}
	}
}

// firstImageURL returns the src of the first <img> in an HTML fragment, or ""
// when there is none.
func firstImageURL(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tokenizer.TagName()
			if string(name) != "img" || !hasAttr {
				continue
			}
			for {
				key, val, more := tokenizer.TagAttr()
				if string(key) == "src" {
					if src := strings.TrimSpace(string(val)); src != "" {
						return src
					}
				}
				if !more {
					break
				}
			}
		}
	}
}
