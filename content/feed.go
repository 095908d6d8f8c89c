package content

import (
	_ "embed"
	"fmt"
	"time"

	"verisight/types"

	"github.com/mmcdole/gofeed"
)

//go:embed education.atom
var readingListFeed string

// Article is one entry of the education reading list
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	Summary     string    `json:"summary"`
	Author      string    `json:"author,omitempty"`
	Categories  []string  `json:"categories,omitempty"`
}

// ReadingList parses the embedded Atom feed, newest entries first as listed, up to maxCount
func ReadingList(maxCount int) ([]Article, error) {
	return parseFeed(readingListFeed, maxCount)
}

func parseFeed(raw string, maxCount int) ([]Article, error) {
	feed, err := gofeed.NewParser().ParseString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reading list: %w", err)
	}

	count := len(feed.Items)
	if maxCount > 0 {
		count = min(count, maxCount)
	}
	articles := make([]Article, 0, count)

	for _, item := range feed.Items[:count] {
		id := item.GUID
		if id == "" && item.Link != "" {
			id = types.GenerateID(item.Link)
		}

		var publishedAt time.Time
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}

		author := ""
		if item.Author != nil {
			author = item.Author.Name
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		articles = append(articles, Article{
			ID:          id,
			Title:       item.Title,
			URL:         item.Link,
			PublishedAt: publishedAt,
			Summary:     summary,
			Author:      author,
			Categories:  append([]string(nil), item.Categories...),
		})
	}

	return articles, nil
}
