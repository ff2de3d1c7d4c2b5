package cli

import (
	"context"
	"fmt"
)

var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) VipLogin(ctx context.Context) {
	username, err := getSimpleText(a.reader, "Benutzername", a.out)
	if err != nil {
		return
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return
	}

	u, err := a.session.LoginVip(ctx, username, password)
	if err != nil {
		a.report(ctx, "vip login", err)
		return
	}
	fmt.Fprintf(a.out, "Willkommen, %s!\n", u.Username)
}

func (a *App) VipLogout(ctx context.Context) {
	if err := a.session.LogoutVip(ctx); err != nil {
		a.report(ctx, "vip logout", err)
		return
	}
	fmt.Fprintln(a.out, "VIP abgemeldet.")
}

func (a *App) VipContent(ctx context.Context) {
	items, err := a.vip.Content(ctx)
	if err != nil {
		a.report(ctx, "vip content", err)
		return
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Keine VIP-Inhalte vorhanden.")
		return
	}
	for _, c := range items {
		fmt.Fprintf(a.out, "%s  %s (%s)\n", c.ID, c.Title, c.Category)
		if c.Description != "" {
			fmt.Fprintf(a.out, "    %s\n", c.Description)
		}
	}
}
