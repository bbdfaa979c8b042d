package podcast

import "errors"

var ErrEpisodesNotFound = errors.New("episodes not found")

type Episode struct {
	GUID      string `json:"guid,omitempty"`
	Title     string `json:"title"`
	Link      string `json:"link,omitempty"`
	URL       string `json:"url"`
	PubDate   string `json:"pub_date,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}
