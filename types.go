package lepton

import "time"

// Context is one cited source backing part of the answer text.
type Context struct {
	Name             string
	ID               string
	URL              string
	ThumbnailURL     string
	DatePublished    *time.Time
	IsFamilyFriendly bool
	DisplayURL       string
	Snippet          string
}

// SearchResult is the assembled output of one search call. Contexts and
// RelatedQuestions keep the order they appeared in the stream.
type SearchResult struct {
	Response         string
	Contexts         []Context
	RelatedQuestions []string
}
