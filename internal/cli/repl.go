package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// commands is the surface runREPL dispatches to. App implements it; tests
// use a recording stub.
type commands interface {
	News(ctx context.Context)
	Videos(ctx context.Context, term string)
	SetCategory(ctx context.Context, category string)
	Video(ctx context.Context, ref string)
	ToggleFavorite(ctx context.Context, id string)
	Favorites(ctx context.Context)
	Subscribers(ctx context.Context)
	Downloads(ctx context.Context, term string)
	Download(ctx context.Context, id string)
	WatchNews(ctx context.Context)

	VipLogin(ctx context.Context)
	VipLogout(ctx context.Context)
	VipContent(ctx context.Context)

	AdminLogin(ctx context.Context)
	AdminLogout(ctx context.Context)
	AdminStats(ctx context.Context)
	AdminListNews(ctx context.Context)
	AdminAddNews(ctx context.Context)
	AdminEditNews(ctx context.Context, id string)
	AdminDeleteNews(ctx context.Context, id string)
	AdminListDownloads(ctx context.Context)
	AdminEditDownload(ctx context.Context, id string)
	AdminDeleteDownload(ctx context.Context, id string)
	AdminListVipContent(ctx context.Context)
	AdminAddVipContent(ctx context.Context)
	AdminEditVipContent(ctx context.Context, id string)
	AdminDeleteVipContent(ctx context.Context, id string)
	AdminAddVipUser(ctx context.Context)
	AdminListVipUsers(ctx context.Context)
	AdminDeleteVipUser(ctx context.Context, id string)
	AdminUpload(ctx context.Context, path string)
	AdminAddDownload(ctx context.Context)
}

const helpText = `Befehle:
  news                 aktuelle News
  videos [suche]       neueste Videos, optional gefiltert
  category <name>      Videokategorie setzen (all = alle)
  video <id|url>       Videodetails
  fav <id>             Video als Favorit an- oder abwählen
  favorites            Favoriten anzeigen
  subs                 Abonnenten
  downloads [suche]    Downloads, optional gefiltert
  download <id>        Download-Link holen
  watch                News live verfolgen (Enter beendet)
  vip login|logout|content
  admin login|logout|stats
  admin news|addnews|editnews <id>|delnews <id>
  admin downloads|adddownload|editdownload <id>|deldownload <id>|upload <datei>
  admin vipcontent [add|edit <id>|del <id>]
  admin vipadd|viplist|vipdel <id>
  exit | quit`

// runREPL reads commands from reader until EOF or exit and dispatches them
// to c. Command handlers print their own results and errors.
func runREPL(ctx context.Context, c commands, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "qfvjug%s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		rest := strings.Join(args, " ")

		switch cmd {
		case "help":
			fmt.Fprintln(w, helpText)
		case "news":
			c.News(ctx)
		case "videos":
			c.Videos(ctx, rest)
		case "category":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: category <name>")
				continue
			}
			c.SetCategory(ctx, args[0])
		case "video":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: video <id|url>")
				continue
			}
			c.Video(ctx, args[0])
		case "fav":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: fav <id>")
				continue
			}
			c.ToggleFavorite(ctx, args[0])
		case "favorites":
			c.Favorites(ctx)
		case "subs":
			c.Subscribers(ctx)
		case "downloads":
			c.Downloads(ctx, rest)
		case "download":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: download <id>")
				continue
			}
			c.Download(ctx, args[0])
		case "watch":
			c.WatchNews(ctx)
		case "vip":
			dispatchVip(ctx, c, args, w)
		case "admin":
			dispatchAdmin(ctx, c, args, w)
		case "exit", "quit":
			fmt.Fprintln(w, "Tschüss!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}

func dispatchVip(ctx context.Context, c commands, args []string, w io.Writer) {
	if len(args) == 0 {
		fmt.Fprintln(w, "Usage: vip login|logout|content")
		return
	}
	switch args[0] {
	case "login":
		c.VipLogin(ctx)
	case "logout":
		c.VipLogout(ctx)
	case "content":
		c.VipContent(ctx)
	default:
		fmt.Fprintln(w, "Unknown vip command:", args[0])
	}
}

func dispatchAdmin(ctx context.Context, c commands, args []string, w io.Writer) {
	if len(args) == 0 {
		fmt.Fprintln(w, "Usage: admin login|logout|stats|news|addnews|editnews|delnews|downloads|adddownload|editdownload|deldownload|upload|vipcontent|vipadd|viplist|vipdel")
		return
	}

	withID := func(run func(ctx context.Context, id string)) {
		if len(args) < 2 {
			fmt.Fprintf(w, "Usage: admin %s <id>\n", args[0])
			return
		}
		run(ctx, args[1])
	}

	switch args[0] {
	case "login":
		c.AdminLogin(ctx)
	case "logout":
		c.AdminLogout(ctx)
	case "stats":
		c.AdminStats(ctx)
	case "news":
		c.AdminListNews(ctx)
	case "addnews":
		c.AdminAddNews(ctx)
	case "editnews":
		withID(c.AdminEditNews)
	case "delnews":
		withID(c.AdminDeleteNews)
	case "downloads":
		c.AdminListDownloads(ctx)
	case "editdownload":
		withID(c.AdminEditDownload)
	case "deldownload":
		withID(c.AdminDeleteDownload)
	case "vipcontent":
		dispatchVipContent(ctx, c, args[1:], w)
	case "vipadd":
		c.AdminAddVipUser(ctx)
	case "viplist":
		c.AdminListVipUsers(ctx)
	case "vipdel":
		withID(c.AdminDeleteVipUser)
	case "upload":
		if len(args) < 2 {
			fmt.Fprintln(w, "Usage: admin upload <datei>")
			return
		}
		c.AdminUpload(ctx, strings.Join(args[1:], " "))
	case "adddownload":
		c.AdminAddDownload(ctx)
	default:
		fmt.Fprintln(w, "Unknown admin command:", args[0])
	}
}

func dispatchVipContent(ctx context.Context, c commands, args []string, w io.Writer) {
	if len(args) == 0 {
		c.AdminListVipContent(ctx)
		return
	}
	switch args[0] {
	case "add":
		c.AdminAddVipContent(ctx)
	case "edit", "del":
		if len(args) < 2 {
			fmt.Fprintf(w, "Usage: admin vipcontent %s <id>\n", args[0])
			return
		}
		if args[0] == "edit" {
			c.AdminEditVipContent(ctx, args[1])
		} else {
			c.AdminDeleteVipContent(ctx, args[1])
		}
	default:
		fmt.Fprintln(w, "Unknown vipcontent command:", args[0])
	}
}
