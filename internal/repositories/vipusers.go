package repositories

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/qfvjug/internal/common"
	"github.com/dmitrijs2005/qfvjug/internal/models"
)

// VipUsers is the vip-users collection. Passwords are stored and compared
// as entered.
type VipUsers struct {
	*Collection[models.VipUser, *models.VipUser]
}

// Authenticate scans all accounts for a username and password pair. On a
// match it records the login time and returns the user without password.
// A miss returns common.ErrInvalidCredentials; a store failure returns an
// error wrapping common.ErrPersistence.
func (v *VipUsers) Authenticate(ctx context.Context, username, password string) (*models.VipUser, error) {
	users, err := v.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: scan vip users: %v", common.ErrPersistence, err)
	}

	for _, u := range users {
		if u.Username != username || u.Password != password {
			continue
		}

		now := v.now()
		if err := v.store.Set(ctx, v.path(u.ID)+"/lastLogin", now); err != nil {
			return nil, fmt.Errorf("%w: stamp last login: %v", common.ErrPersistence, err)
		}
		u.LastLogin = &now

		r := u.Redacted()
		return &r, nil
	}

	return nil, common.ErrInvalidCredentials
}

// List returns all accounts with the password shown as "***".
func (v *VipUsers) List(ctx context.Context) []models.VipUser {
	users := v.GetAll(ctx)
	for i := range users {
		users[i] = users[i].Masked()
	}
	return users
}

// Create adds an account.
func (v *VipUsers) Create(ctx context.Context, username, password string) (models.VipUser, error) {
	u, err := models.NewVipUser(username, password)
	if err != nil {
		return u, err
	}
	created, err := v.Add(ctx, u)
	if err != nil {
		return created, err
	}
	return created.Masked(), nil
}
