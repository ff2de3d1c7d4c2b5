package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/qfvjug/internal/format"
	"github.com/dmitrijs2005/qfvjug/internal/models"
)

func (a *App) AdminLogin(ctx context.Context) {
	email, err := getSimpleText(a.reader, "E-Mail", a.out)
	if err != nil {
		return
	}
	if !format.IsValidEmail(email) {
		fmt.Fprintln(a.out, "Bitte eine gültige E-Mail-Adresse eingeben.")
		return
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return
	}

	u, err := a.session.LoginAdmin(ctx, email, password)
	if err != nil {
		a.report(ctx, "admin login", err)
		return
	}
	fmt.Fprintf(a.out, "Angemeldet als %s.\n", u.Email)
}

func (a *App) AdminLogout(ctx context.Context) {
	a.session.LogoutAdmin(ctx)
	fmt.Fprintln(a.out, "Admin abgemeldet.")
}

func (a *App) AdminStats(ctx context.Context) {
	s, err := a.admin.Stats(ctx)
	if err != nil {
		a.report(ctx, "stats", err)
		return
	}
	fmt.Fprintf(a.out, "News: %d  Downloads: %d  VIP-Nutzer: %d  Downloads gesamt: %s\n",
		s.News, s.Downloads, s.VipUsers, format.Number(s.TotalDownloads))
	for i, d := range s.TopDownloads {
		fmt.Fprintf(a.out, "  %d. %s (%d)\n", i+1, d.Title, d.DownloadCount)
	}
}

func (a *App) AdminAddNews(ctx context.Context) {
	if err := a.session.RequireAdmin(); err != nil {
		a.report(ctx, "add news", err)
		return
	}

	title, err := getSimpleText(a.reader, "Titel", a.out)
	if err != nil {
		return
	}
	content, err := getSimpleText(a.reader, "Inhalt", a.out)
	if err != nil {
		return
	}
	kind, err := getSimpleText(a.reader, "Typ (video/announcement/update, leer = announcement)", a.out)
	if err != nil {
		return
	}
	priority, err := getSimpleText(a.reader, "Priorität (low/medium/high, leer = medium)", a.out)
	if err != nil {
		return
	}
	visible, err := a.askBool("Sichtbar?", true)
	if err != nil {
		return
	}

	item, err := models.NewNewsItem(title, content)
	if err == nil {
		if kind != "" {
			item.Type = models.NewsType(kind)
		}
		if priority != "" {
			item.Priority = models.Priority(priority)
		}
		item.IsVisible = visible
		item, err = a.admin.AddNews(ctx, item)
	}
	if err != nil {
		a.report(ctx, "add news", err)
		return
	}
	fmt.Fprintf(a.out, "News %s angelegt.\n", item.ID)
}

// AdminListNews lists every entry, hidden ones marked.
func (a *App) AdminListNews(ctx context.Context) {
	items, err := a.admin.News(ctx)
	if err != nil {
		a.report(ctx, "list news", err)
		return
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Keine News vorhanden.")
		return
	}
	for _, n := range items {
		fmt.Fprintf(a.out, "%s  [%s/%s] %s%s\n", n.ID, n.Type, n.Priority, n.Title, hiddenMarker(n.IsVisible))
	}
}

// AdminEditNews rewrites an entry from the answers. An empty answer keeps
// the current value; the stored entry is replaced as a whole.
func (a *App) AdminEditNews(ctx context.Context, id string) {
	cur, err := a.admin.NewsItem(ctx, id)
	if err != nil {
		a.report(ctx, "edit news", err)
		return
	}

	next := models.NewsItem{Timestamps: models.Timestamps{CreatedAt: cur.CreatedAt}}
	for _, f := range []struct {
		prompt string
		dst    *string
		cur    string
	}{
		{"Titel", &next.Title, cur.Title},
		{"Inhalt", &next.Content, cur.Content},
		{"Typ", (*string)(&next.Type), string(cur.Type)},
		{"Priorität", (*string)(&next.Priority), string(cur.Priority)},
	} {
		if *f.dst, err = a.askDefault(f.prompt, f.cur); err != nil {
			return
		}
	}
	if next.IsVisible, err = a.askBool("Sichtbar?", cur.IsVisible); err != nil {
		return
	}

	if _, err := a.admin.UpdateNews(ctx, id, next); err != nil {
		a.report(ctx, "edit news", err)
		return
	}
	fmt.Fprintf(a.out, "News %s gespeichert.\n", id)
}

func (a *App) AdminDeleteNews(ctx context.Context, id string) {
	if err := a.admin.DeleteNews(ctx, id); err != nil {
		a.report(ctx, "delete news", err)
		return
	}
	fmt.Fprintf(a.out, "News %s gelöscht.\n", id)
}

// AdminListDownloads lists every download, hidden ones marked.
func (a *App) AdminListDownloads(ctx context.Context) {
	items, err := a.admin.Downloads(ctx)
	if err != nil {
		a.report(ctx, "list downloads", err)
		return
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Keine Downloads vorhanden.")
		return
	}
	for _, d := range items {
		vip := ""
		if d.IsVipOnly {
			vip = " [VIP]"
		}
		fmt.Fprintf(a.out, "%s  %s%s%s (%s) %d Downloads\n", d.ID, d.Title, vip, hiddenMarker(d.IsVisible), d.Category, d.DownloadCount)
	}
}

// AdminEditDownload rewrites a download from the answers. The stored record
// is replaced as a whole, which resets its download count.
func (a *App) AdminEditDownload(ctx context.Context, id string) {
	cur, err := a.admin.Download(ctx, id)
	if err != nil {
		a.report(ctx, "edit download", err)
		return
	}

	next := models.DownloadItem{
		FileSize:   cur.FileSize,
		Version:    cur.Version,
		Tags:       cur.Tags,
		Timestamps: models.Timestamps{CreatedAt: cur.CreatedAt},
	}
	for _, f := range []struct {
		prompt string
		dst    *string
		cur    string
	}{
		{"Titel", &next.Title, cur.Title},
		{"Kategorie", &next.Category, cur.Category},
		{"Beschreibung", &next.Description, cur.Description},
		{"URL", &next.DownloadURL, cur.DownloadURL},
	} {
		if *f.dst, err = a.askDefault(f.prompt, f.cur); err != nil {
			return
		}
	}
	if next.IsVipOnly, err = a.askBool("Nur für VIPs?", cur.IsVipOnly); err != nil {
		return
	}
	if next.IsVisible, err = a.askBool("Sichtbar?", cur.IsVisible); err != nil {
		return
	}

	if _, err := a.admin.UpdateDownload(ctx, id, next); err != nil {
		a.report(ctx, "edit download", err)
		return
	}
	fmt.Fprintf(a.out, "Download %s gespeichert.\n", id)
}

func (a *App) AdminDeleteDownload(ctx context.Context, id string) {
	if err := a.admin.DeleteDownload(ctx, id); err != nil {
		a.report(ctx, "delete download", err)
		return
	}
	fmt.Fprintf(a.out, "Download %s gelöscht.\n", id)
}

func (a *App) AdminListVipContent(ctx context.Context) {
	items, err := a.admin.VipContent(ctx)
	if err != nil {
		a.report(ctx, "list vip content", err)
		return
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Keine VIP-Inhalte vorhanden.")
		return
	}
	for _, c := range items {
		fmt.Fprintf(a.out, "%s  %s%s (%s)\n", c.ID, c.Title, hiddenMarker(c.IsVisible), c.Category)
	}
}

func (a *App) AdminAddVipContent(ctx context.Context) {
	if err := a.session.RequireAdmin(); err != nil {
		a.report(ctx, "add vip content", err)
		return
	}

	var fields [4]string
	for i, prompt := range []string{"Titel", "Kategorie", "Beschreibung", "URL"} {
		v, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return
		}
		fields[i] = v
	}

	item, err := models.NewVipContentItem(fields[0], fields[2])
	if err == nil {
		item.Category = fields[1]
		item.DownloadURL = fields[3]
		item, err = a.admin.AddVipContent(ctx, item)
	}
	if err != nil {
		a.report(ctx, "add vip content", err)
		return
	}
	fmt.Fprintf(a.out, "VIP-Inhalt %s angelegt.\n", item.ID)
}

// AdminEditVipContent rewrites VIP content from the answers, replacing the
// stored record as a whole.
func (a *App) AdminEditVipContent(ctx context.Context, id string) {
	cur, err := a.admin.VipContentItem(ctx, id)
	if err != nil {
		a.report(ctx, "edit vip content", err)
		return
	}

	next := models.VipContentItem{
		FileSize:   cur.FileSize,
		Version:    cur.Version,
		Tags:       cur.Tags,
		Timestamps: models.Timestamps{CreatedAt: cur.CreatedAt},
	}
	for _, f := range []struct {
		prompt string
		dst    *string
		cur    string
	}{
		{"Titel", &next.Title, cur.Title},
		{"Kategorie", &next.Category, cur.Category},
		{"Beschreibung", &next.Description, cur.Description},
		{"URL", &next.DownloadURL, cur.DownloadURL},
	} {
		if *f.dst, err = a.askDefault(f.prompt, f.cur); err != nil {
			return
		}
	}
	if next.IsVisible, err = a.askBool("Sichtbar?", cur.IsVisible); err != nil {
		return
	}

	if _, err := a.admin.UpdateVipContent(ctx, id, next); err != nil {
		a.report(ctx, "edit vip content", err)
		return
	}
	fmt.Fprintf(a.out, "VIP-Inhalt %s gespeichert.\n", id)
}

func (a *App) AdminDeleteVipContent(ctx context.Context, id string) {
	if err := a.admin.DeleteVipContent(ctx, id); err != nil {
		a.report(ctx, "delete vip content", err)
		return
	}
	fmt.Fprintf(a.out, "VIP-Inhalt %s gelöscht.\n", id)
}

func (a *App) AdminAddVipUser(ctx context.Context) {
	if err := a.session.RequireAdmin(); err != nil {
		a.report(ctx, "add vip user", err)
		return
	}

	username, err := getSimpleText(a.reader, "Benutzername", a.out)
	if err != nil {
		return
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return
	}

	u, err := a.admin.CreateVipUser(ctx, username, password)
	if err != nil {
		a.report(ctx, "add vip user", err)
		return
	}
	fmt.Fprintf(a.out, "VIP-Nutzer %s angelegt (id=%s).\n", u.Username, u.ID)
}

func (a *App) AdminListVipUsers(ctx context.Context) {
	users, err := a.admin.VipUsers(ctx)
	if err != nil {
		a.report(ctx, "list vip users", err)
		return
	}
	if len(users) == 0 {
		fmt.Fprintln(a.out, "Keine VIP-Nutzer.")
		return
	}
	for _, u := range users {
		last := "nie"
		if u.LastLogin != nil {
			last = format.Relative(*u.LastLogin, a.now())
		}
		fmt.Fprintf(a.out, "%s  %s  Passwort: %s  letzter Login: %s\n", u.ID, u.Username, u.Password, last)
	}
}

func (a *App) AdminDeleteVipUser(ctx context.Context, id string) {
	if err := a.admin.DeleteVipUser(ctx, id); err != nil {
		a.report(ctx, "delete vip user", err)
		return
	}
	fmt.Fprintf(a.out, "VIP-Nutzer %s gelöscht.\n", id)
}

func (a *App) AdminUpload(ctx context.Context, path string) {
	url, size, err := a.admin.Upload(ctx, path)
	if err != nil {
		a.report(ctx, "upload", err)
		return
	}
	fmt.Fprintf(a.out, "Hochgeladen: %s (%s)\n", url, size)
}

// AdminAddDownload creates a download. A local file path given as URL is
// uploaded to storage first.
func (a *App) AdminAddDownload(ctx context.Context) {
	if err := a.session.RequireAdmin(); err != nil {
		a.report(ctx, "add download", err)
		return
	}

	var fields [5]string
	for i, prompt := range []string{
		"Titel",
		"Kategorie",
		"Beschreibung",
		"URL oder lokale Datei",
		"Nur für VIPs? (j/n)",
	} {
		v, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return
		}
		fields[i] = v
	}
	title, category, description, location, vipOnly := fields[0], fields[1], fields[2], fields[3], fields[4]

	fileSize := ""
	if _, err := os.Stat(location); err == nil {
		url, size, err := a.admin.Upload(ctx, location)
		if err != nil {
			a.report(ctx, "upload", err)
			return
		}
		location, fileSize = url, size
	}

	item, err := models.NewDownloadItem(title, category, location)
	if err == nil {
		item.Description = description
		item.FileSize = fileSize
		item.IsVipOnly = isYes(vipOnly)
		item, err = a.admin.AddDownload(ctx, item)
	}
	if err != nil {
		a.report(ctx, "add download", err)
		return
	}
	fmt.Fprintf(a.out, "Download %s angelegt.\n", item.ID)
}

// askDefault prompts with the current value shown in brackets. An empty
// answer keeps it.
func (a *App) askDefault(prompt, cur string) (string, error) {
	v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", prompt, cur), a.out)
	if err != nil || v == "" {
		return cur, err
	}
	return v, nil
}

func (a *App) askBool(prompt string, cur bool) (bool, error) {
	def := "n"
	if cur {
		def = "j"
	}
	v, err := a.askDefault(prompt+" (j/n)", def)
	if err != nil {
		return cur, err
	}
	return isYes(v), nil
}

func isYes(s string) bool {
	return strings.EqualFold(s, "j") || strings.EqualFold(s, "y")
}

func hiddenMarker(visible bool) string {
	if visible {
		return ""
	}
	return " [versteckt]"
}
