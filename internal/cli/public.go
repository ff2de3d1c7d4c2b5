package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/qfvjug/internal/format"
	"github.com/dmitrijs2005/qfvjug/internal/models"
	"github.com/dmitrijs2005/qfvjug/internal/search"
)

func (a *App) News(ctx context.Context) {
	items := a.content.News(ctx)
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Keine News vorhanden.")
		return
	}
	a.printNews(items)
}

func (a *App) printNews(items []models.NewsItem) {
	now := a.now()
	for _, n := range items {
		fmt.Fprintf(a.out, "[%s/%s] %s (%s) id=%s\n", n.Type, n.Priority, n.Title, format.Relative(n.CreatedAt, now), n.ID)
		if n.Content != "" {
			fmt.Fprintf(a.out, "    %s\n", n.Content)
		}
	}
}

// Videos lists the latest videos through the search box filter.
func (a *App) Videos(ctx context.Context, term string) {
	a.videoSearch.SetSource(a.content.Videos(ctx))
	a.videoSearch.Query(term, a.category)
	a.videoSearch.Flush()
	videos := <-a.videoSearch.Results()

	if len(videos) == 0 {
		fmt.Fprintln(a.out, "Keine Videos gefunden.")
		return
	}
	now := a.now()
	for _, v := range videos {
		fmt.Fprintf(a.out, "%s  %s (%s)\n", v.ID, v.Title, format.Relative(v.PublishedAt, now))
	}
}

func (a *App) SetCategory(ctx context.Context, category string) {
	a.category = strings.ToLower(category)
	fmt.Fprintf(a.out, "Kategorie: %s\n", a.category)
}

// Video accepts an id or any YouTube URL.
func (a *App) Video(ctx context.Context, ref string) {
	id := ref
	if parsed, ok := format.YouTubeVideoID(ref); ok {
		id = parsed
	}

	v := a.content.Video(ctx, id)
	if v == nil {
		fmt.Fprintln(a.out, "Video nicht gefunden.")
		return
	}
	fmt.Fprintf(a.out, "%s\n%s\nAufrufe: %s  Likes: %s  Veröffentlicht: %s\n%s\n",
		v.Title, v.Description, v.ViewCount, v.LikeCount, format.Date(v.PublishedAt), v.URL)
}

func (a *App) ToggleFavorite(ctx context.Context, id string) {
	on, err := a.content.ToggleFavorite(ctx, id)
	if err != nil {
		a.report(ctx, "toggle favorite", err)
		return
	}
	if on {
		fmt.Fprintf(a.out, "%s zu Favoriten hinzugefügt.\n", id)
	} else {
		fmt.Fprintf(a.out, "%s aus Favoriten entfernt.\n", id)
	}
}

func (a *App) Favorites(ctx context.Context) {
	ids := a.content.Favorites(ctx)
	if len(ids) == 0 {
		fmt.Fprintln(a.out, "Noch keine Favoriten.")
		return
	}
	listed := make(map[string]models.VideoSummary)
	for _, v := range a.content.FavoriteVideos(ctx) {
		listed[v.ID] = v
	}
	for _, id := range ids {
		if v, ok := listed[id]; ok {
			fmt.Fprintf(a.out, "%s  %s\n", id, v.Title)
		} else {
			fmt.Fprintln(a.out, id)
		}
	}
}

func (a *App) Subscribers(ctx context.Context) {
	fmt.Fprintf(a.out, "Abonnenten: %s\n", a.content.Subscribers(ctx).Display)
}

func (a *App) Downloads(ctx context.Context, term string) {
	a.downloadSearch.SetSource(a.downloads.List(ctx))
	a.downloadSearch.Query(term, search.CategoryAll)
	a.downloadSearch.Flush()
	items := <-a.downloadSearch.Results()

	if len(items) == 0 {
		fmt.Fprintln(a.out, "Keine Downloads gefunden.")
		return
	}
	for _, d := range items {
		vip := ""
		if d.IsVipOnly {
			vip = " [VIP]"
		}
		fmt.Fprintf(a.out, "%s  %s%s (%s, %s) %d Downloads\n", d.ID, d.Title, vip, d.Category, d.FileSize, d.DownloadCount)
	}
}

func (a *App) Download(ctx context.Context, id string) {
	url, err := a.downloads.Download(ctx, id)
	if err != nil {
		a.report(ctx, "download", err)
		return
	}
	fmt.Fprintf(a.out, "Download: %s\n", url)
}

// WatchNews prints live news snapshots until the user presses Enter.
func (a *App) WatchNews(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	snaps, stop, err := a.content.WatchNews(ctx)
	if err != nil {
		a.report(ctx, "watch news", err)
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for snap := range snaps {
			fmt.Fprintf(a.out, "--- %d News ---\n", len(snap))
			a.printNews(snap)
		}
	}()

	fmt.Fprintln(a.out, "Live-News, Enter beendet.")
	_, _ = a.reader.ReadString('\n')
	stop()
	<-done
}
