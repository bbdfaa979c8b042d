package controller

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/truevoice/server/internal/service/catalog"
	"github.com/truevoice/server/internal/service/nowplaying"
	"github.com/truevoice/server/internal/service/podcast"
	"github.com/truevoice/server/pkg/votd"
)

var sectionTitles = map[catalog.VideoSection]string{
	catalog.SectionWatchLive:        "Watch Live",
	catalog.SectionListenAgain:      "Listen Again",
	catalog.SectionMusicTestimonies: "Music & Testimonies",
}

var pageFuncs = template.FuncMap{
	"listeners": func(n *int) string {
		if n == nil {
			return ""
		}
		if *n == 1 {
			return "1 listener"
		}
		return fmt.Sprintf("%d listeners", *n)
	},
	"pubDate": func(s string) string {
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC1123Z, time.RFC1123} {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format("Jan 2, 2006")
			}
		}
		return s
	},
}

type pageSection struct {
	ID    catalog.VideoSection
	Title string
	Video *catalog.Video
}

type pageData struct {
	Theme      catalog.Theme
	NowPlaying nowplaying.Display
	Stream     streamResponse
	Podcasts   []podcast.Show
	Sections   []pageSection
	Reels      []catalog.ReelChannel
	Merch      []catalog.MerchProduct
	Donations  []catalog.DonationLink
	Verse      votd.Verse
	Year       int
}

func (c controller) renderPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sections := make([]pageSection, 0, len(catalog.Sections))
	for _, id := range catalog.Sections {
		section := pageSection{ID: id, Title: sectionTitles[id]}
		if video, err := c.catalogService.OpenVideo(id); err == nil {
			section.Video = &video
		}
		sections = append(sections, section)
	}

	sources := c.listenerService.Sources()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, pageData{
		Theme:      c.catalogService.Theme(),
		NowPlaying: c.nowPlayingService.Current(),
		Stream:     streamResponse{Primary: sources.Primary, Fallback: sources.Fallback},
		Podcasts:   c.podcastService.Shows(ctx),
		Sections:   sections,
		Reels:      c.catalogService.Reels(),
		Merch:      c.catalogService.Merch(),
		Donations:  c.catalogService.DonationLinks(),
		Verse:      c.verseService.Current(ctx),
		Year:       time.Now().Year(),
	}); err != nil {
		c.logger.ErrorContext(ctx, "failed to render page", "error", err)
	}
}

var pageTemplate = template.Must(template.New("page").Funcs(pageFuncs).Parse(`<!DOCTYPE html>
<html lang="en" data-theme="{{.Theme}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>TrueVoice Digital Radio</title>
</head>
<body class="theme-{{.Theme}}">
<header class="hero">
  <h1>TrueVoice Digital</h1>
  <p>Faith-filled radio, podcasts and video, all day.</p>
  <button id="listen" type="button">Listen Live</button>
  <p id="prompt" class="prompt" hidden></p>
  <audio id="player" preload="none" data-primary="{{.Stream.Primary}}" data-fallback="{{.Stream.Fallback}}"></audio>
</header>

<section id="now-playing" class="card">
  <span id="live-label" class="label">{{.NowPlaying.LiveLabel}}</span>
  {{if .NowPlaying.Art}}<img id="np-art" src="{{.NowPlaying.Art}}" alt="">{{end}}
  <h2 id="np-title">{{.NowPlaying.Title}}</h2>
  <p id="np-artist">{{.NowPlaying.Artist}}</p>
  <p id="np-album">{{.NowPlaying.Album}}</p>
  <p id="np-listeners">{{listeners .NowPlaying.Listeners}}</p>
</section>

<section id="podcasts">
  <h2>Podcasts</h2>
  {{range .Podcasts}}
  <article class="podcast">
    <h3>{{.Title}}</h3>
    <p class="audience">{{.Audience}}</p>
    <p>{{.Description}}</p>
    {{if .Message}}<p class="notice">{{.Message}}</p>{{end}}
    <ul>
      {{range .Episodes}}<li><a href="{{.URL}}" target="_blank" rel="noopener">{{.Title}}</a> <time>{{pubDate .PubDate}}</time></li>{{end}}
    </ul>
    <a href="{{.WebsiteURL}}" target="_blank" rel="noopener">Original feed</a>
  </article>
  {{end}}
</section>

<section id="videos">
  {{range .Sections}}
  <article class="video-section" id="{{.ID}}">
    <h2>{{.Title}}</h2>
    {{with .Video}}
    <p>{{.Title}}</p>
    <a class="watch" href="{{.EmbedURL}}" data-embed="{{.EmbedURL}}">Watch</a>
    {{end}}
  </article>
  {{end}}
</section>

<section id="reels">
  {{range .Reels}}
  <h2>{{.Title}}</h2>
  <div class="reels">
    {{range .Reels}}
    <figure>
      <iframe src="{{.EmbedURL}}" title="{{.Title}}" loading="lazy" allowfullscreen></iframe>
      <figcaption>{{.Title}} <small>{{.Topic}}</small></figcaption>
    </figure>
    {{end}}
  </div>
  {{end}}
</section>

<section id="merch">
  <h2>Merch</h2>
  {{range .Merch}}
  <a class="product" href="{{.Href}}"><span class="tag">{{.Tag}}</span> {{.Name}} <b>{{.Price}}</b> <i>{{.Scripture}}</i></a>
  {{end}}
</section>

<section id="donate">
  <h2>Support the station</h2>
  {{range .Donations}}<a class="donate" href="{{.URL}}" target="_blank" rel="noopener">{{.Label}}</a>{{end}}
</section>

<section id="verse">
  <blockquote>{{.Verse.Text}}</blockquote>
  <p>{{.Verse.Reference}} ({{.Verse.Version}})</p>
</section>

<footer>&copy; {{.Year}} TrueVoice Digital</footer>

<script>
(function () {
  var audio = document.getElementById("player");
  var button = document.getElementById("listen");
  var prompt = document.getElementById("prompt");
  var token = sessionStorage.getItem("tv-session-token") || "";
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/api/v1/ws/listen?session-token=" + encodeURIComponent(token));

  function send(type, payload) {
    if (ws.readyState === 1) ws.send(JSON.stringify({type: type, payload: payload || null}));
  }

  function applySession(session, transition) {
    button.textContent = session.state === "playing" || session.state === "starting" ? "Stop" : "Listen Live";
    prompt.hidden = !session.prompt;
    prompt.textContent = session.prompt || "";
    if (!transition) return;
    if (transition.action === "load") {
      audio.src = transition.source;
      audio.play().catch(function (e) {
        if (e && e.name === "NotAllowedError") send("PLAY_BLOCKED");
      });
    } else if (transition.action === "unload") {
      audio.pause();
      audio.removeAttribute("src");
      audio.load();
    }
  }

  function applyNowPlaying(np) {
    document.getElementById("np-title").textContent = np.title;
    document.getElementById("np-artist").textContent = np.artist;
    document.getElementById("np-album").textContent = np.album;
    document.getElementById("live-label").textContent = np.live_label;
  }

  ws.onmessage = function (e) {
    var msg = JSON.parse(e.data);
    switch (msg.type) {
    case "SESSION_STARTED":
      sessionStorage.setItem("tv-session-token", msg.payload.session_token);
      applySession(msg.payload.session);
      applyNowPlaying(msg.payload.now_playing);
      break;
    case "SESSION_UPDATED":
      applySession(msg.payload.session, msg.payload.transition);
      break;
    case "NOW_PLAYING_UPDATED":
      applyNowPlaying(msg.payload.now_playing);
      break;
    case "THEME_UPDATED":
      document.documentElement.dataset.theme = msg.payload.theme;
      break;
    }
  };

  ["play", "pause", "ended", "error"].forEach(function (ev) {
    audio.addEventListener(ev, function () { send("MEDIA_EVENT", {event: ev}); });
  });

  button.addEventListener("click", function () {
    send(button.textContent === "Stop" ? "REQUEST_STOP" : "REQUEST_PLAY");
  });

  setInterval(function () { send("ALIVE"); }, 30000);
})();
</script>
</body>
</html>
`))
