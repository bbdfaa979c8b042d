package catalog

// Default is used when no catalog file is configured.
func Default() Catalog {
	return Catalog{
		Videos: []VideoFeedItem{
			{
				ID:          "live-1",
				Section:     SectionWatchLive,
				Title:       "TrueVoice Live",
				Description: "Join the live studio stream when we’re on air.",
				VideoID:     "YOUR_LIVE_VIDEO_ID",
				Active:      true,
				Featured:    true,
				PublishedAt: "2026-01-01",
			},
			{
				ID:          "replay-1",
				Section:     SectionListenAgain,
				Title:       "Listen Again",
				Description: "Catch replays of recent shows and messages.",
				VideoID:     "YOUR_REPLAY_VIDEO_ID",
				Active:      true,
				Featured:    true,
				PublishedAt: "2026-01-08",
			},
			{
				ID:          "mt-1",
				Section:     SectionMusicTestimonies,
				Title:       "Music & Testimonies",
				Description: "Watch new music videos and stories of faith.",
				VideoID:     "YOUR_MUSIC_OR_TESTIMONY_VIDEO_ID",
				Active:      true,
				Featured:    true,
				PublishedAt: "2026-01-05",
			},
		},
		Reels: []Reel{
			bibleProjectReel("bp-genesis-1-11", "Genesis 1–11 Overview", "Creation, Rebellion & Hope", "GQI72THyO5I",
				"Animated overview of Genesis 1–11, tracing God’s good world, human rebellion, and God’s promise to bless the nations."),
			bibleProjectReel("bp-gospel-kingdom", "Gospel of the Kingdom", "Good News of Jesus", "xmFPS0f-kzs",
				"What “gospel” really means and how Jesus’ announcement of God’s Kingdom fulfills the story of the Bible."),
			bibleProjectReel("bp-holy-spirit", "The Holy Spirit", "Holy Spirit", "oNNZO9i1Gjc",
				"Explores the biblical concept of God’s Spirit—God’s personal presence who empowers and brings new creation."),
			bibleProjectReel("bp-image-of-god", "Image of God", "Identity & Calling", "YbipxLDtY8c",
				"What it means to be made in God’s image and how Jesus restores our calling to rule with God."),
			bibleProjectReel("bp-justice", "Justice", "Justice & Mercy", "A14THPoc4-4",
				"Traces the biblical theme of justice and shows how God’s justice is tied to mercy, generosity, and Jesus."),
		},
		Merch: []MerchProduct{
			{ID: "tv-gear-01", Name: "No Weapon Formed Tee", Price: "$34", Tag: "BESTSELLER", Href: "#", Scripture: "Isaiah 54:17"},
			{ID: "tv-gear-02", Name: "Armour of God Hoodie", Price: "$68", Tag: "NEW", Href: "#", Scripture: "Ephesians 6:11"},
			{ID: "tv-gear-03", Name: "Lion of Judah Heavyweight", Price: "$42", Tag: "LIMITED", Href: "#", Scripture: "Revelation 5:5"},
			{ID: "tv-gear-04", Name: "Faith Over Fear Crewneck", Price: "$58", Tag: "TRENDING", Href: "#", Scripture: "2 Timothy 1:7"},
			{ID: "tv-gear-05", Name: "I Am Not Ashamed Drop-Shoulder", Price: "$38", Tag: "BOLD", Href: "#", Scripture: "Romans 1:16"},
			{ID: "tv-gear-06", Name: "Kingdom Come Oversized Tee", Price: "$36", Tag: "NEW", Href: "#", Scripture: "Matthew 6:10"},
		},
		Donations: []DonationLink{
			{ID: "one-time", Label: "Give Once", URL: "https://donate.stripe.com/YOUR_ONE_TIME_LINK"},
			{ID: "monthly", Label: "Give Monthly", URL: "https://donate.stripe.com/YOUR_MONTHLY_LINK"},
		},
		Podcasts: []PodcastShow{
			{
				ID:          "bibleproject",
				Title:       "BibleProject",
				Audience:    "Young adults, college & up",
				Description: "In-depth conversations about the Bible and theology from the team behind BibleProject videos.",
				FeedURL:     "https://feeds.simplecast.com/3NVmUWZO",
				Image:       "/images/podcasts/bibleproject.jpg",
				WebsiteURL:  "https://thebibleproject.simplecast.com/episodes",
			},
			{
				ID:          "becoming-something",
				Title:       "Becoming Something with Jonathan Pokluda",
				Audience:    "20s & 30s, young professionals",
				Description: "Straightforward, practical teaching for young adults navigating faith, dating, work, and calling.",
				FeedURL:     "https://podcasts.subsplash.com/z73b3th/podcast.rss",
				Image:       "/images/podcasts/becoming-something.jpg",
				WebsiteURL:  "https://podcasts.apple.com/us/podcast/becoming-something-with-jonathan-pokluda/id1454045768",
			},
			{
				ID:          "whoa-thats-good",
				Title:       "WHOA That's Good with Sadie Robertson Huff",
				Audience:    "Young women, teens & 20s",
				Description: "Conversations with Sadie about faith, purpose, and real-life questions with guests from all walks of life.",
				FeedURL:     "https://feeds.megaphone.fm/LEW1514366617",
				Image:       "/images/podcasts/whoa-thats-good.jpg",
				WebsiteURL:  "https://www.liveoriginal.com/podcast",
			},
			{
				ID:          "made-for-this",
				Title:       "Made For This with Jennie Allen",
				Audience:    "Women, small group leaders",
				Description: "Biblical teaching and honest conversations to help you live the life God made you for.",
				FeedURL:     "https://feeds.transistor.fm/made-for-this-with-jennie-allen",
				Image:       "/images/podcasts/made-for-this.jpg",
				WebsiteURL:  "https://www.jennieallen.com/podcast",
			},
		},
	}
}

func bibleProjectReel(id, title, topic, videoID, description string) Reel {
	return Reel{
		ID:           id,
		Channel:      "BibleProject",
		Title:        title,
		Speaker:      "BibleProject",
		Topic:        topic,
		VideoURL:     "https://www.youtube.com/watch?v=" + videoID,
		EmbedURL:     "https://www.youtube.com/embed/" + videoID,
		ThumbnailURL: "https://img.youtube.com/vi/" + videoID + "/hqdefault.jpg",
		Description:  description,
		Source:       "BibleProject",
	}
}
