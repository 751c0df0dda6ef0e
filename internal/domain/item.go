package domain

import "fmt"

// WatchURL is the public page prefix for an upstream item id.
const WatchURL = "https://www.youtube.com/watch?v="

// Metadata is the raw description of an item as returned upstream.
type Metadata struct {
	Title        string
	DurationCode string
	Description  string
}

// Item is one upload, assembled from Metadata. It is immutable after
// construction and compared to other items only by ID.
type Item struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Link            string `json:"link"`
	DurationSeconds uint64 `json:"duration_seconds"`
}

// RunTime renders the duration as H:M:S. Minutes and seconds are not
// zero-padded.
func (i Item) RunTime() string {
	hours, rest := i.DurationSeconds/3600, i.DurationSeconds%3600
	minutes, seconds := rest/60, rest%60
	return fmt.Sprintf("%d:%d:%d", hours, minutes, seconds)
}

// Message is the notification body for the item.
func (i Item) Message() string {
	return fmt.Sprintf("The latest video %s (%s%s) for %s took %s.",
		i.Title, WatchURL, i.ID, i.Link, i.RunTime())
}
