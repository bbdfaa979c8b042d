package catalog

type VideoSection string

const (
	SectionWatchLive        VideoSection = "watch_live"
	SectionListenAgain      VideoSection = "listen_again"
	SectionMusicTestimonies VideoSection = "music_testimonies"
)

var Sections = []VideoSection{SectionWatchLive, SectionListenAgain, SectionMusicTestimonies}

func (s VideoSection) Valid() bool {
	for _, section := range Sections {
		if s == section {
			return true
		}
	}
	return false
}

// VideoFeedItem is a curated entry. VideoID may be a bare id or a full
// YouTube URL.
type VideoFeedItem struct {
	ID          string       `mapstructure:"id" json:"id"`
	Section     VideoSection `mapstructure:"section" json:"section"`
	Title       string       `mapstructure:"title" json:"title"`
	Description string       `mapstructure:"description" json:"description"`
	VideoID     string       `mapstructure:"video_id" json:"video_id"`
	Active      bool         `mapstructure:"active" json:"active"`
	Featured    bool         `mapstructure:"featured" json:"featured"`
	PublishedAt string       `mapstructure:"published_at" json:"published_at"`
}

type Video struct {
	VideoFeedItem
	EmbedURL     string `json:"embed_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type Reel struct {
	ID           string `mapstructure:"id" json:"id"`
	Channel      string `mapstructure:"channel" json:"channel"`
	Title        string `mapstructure:"title" json:"title"`
	Speaker      string `mapstructure:"speaker" json:"speaker"`
	Topic        string `mapstructure:"topic" json:"topic"`
	VideoURL     string `mapstructure:"video_url" json:"video_url"`
	EmbedURL     string `mapstructure:"embed_url" json:"embed_url"`
	ThumbnailURL string `mapstructure:"thumbnail_url" json:"thumbnail_url"`
	Description  string `mapstructure:"description" json:"description"`
	Source       string `mapstructure:"source" json:"source"`
}

type ReelChannel struct {
	Title string `json:"title"`
	Reels []Reel `json:"reels"`
}

type MerchProduct struct {
	ID        string `mapstructure:"id" json:"id"`
	Name      string `mapstructure:"name" json:"name"`
	Price     string `mapstructure:"price" json:"price"`
	Tag       string `mapstructure:"tag" json:"tag"`
	Href      string `mapstructure:"href" json:"href"`
	Scripture string `mapstructure:"scripture" json:"scripture"`
}

type DonationLink struct {
	ID    string `mapstructure:"id" json:"id"`
	Label string `mapstructure:"label" json:"label"`
	URL   string `mapstructure:"url" json:"url"`
}

type PodcastShow struct {
	ID          string `mapstructure:"id" json:"id"`
	Title       string `mapstructure:"title" json:"title"`
	Audience    string `mapstructure:"audience" json:"audience"`
	Description string `mapstructure:"description" json:"description"`
	FeedURL     string `mapstructure:"feed_url" json:"feed_url"`
	Image       string `mapstructure:"image" json:"image"`
	WebsiteURL  string `mapstructure:"website_url" json:"website_url"`
}

type Catalog struct {
	Videos    []VideoFeedItem `mapstructure:"videos"`
	Reels     []Reel          `mapstructure:"reels"`
	Merch     []MerchProduct  `mapstructure:"merch"`
	Donations []DonationLink  `mapstructure:"donations"`
	Podcasts  []PodcastShow   `mapstructure:"podcasts"`
}

type Theme string

const (
	ThemeDay   Theme = "day"
	ThemeNight Theme = "night"
)
