package models

import (
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/common"
)

// VipUser is a document under vip-users/{id}. Password is stored as entered.
type VipUser struct {
	ID        string     `json:"id,omitempty"`
	Username  string     `json:"username,omitempty" validate:"required"`
	Password  string     `json:"password,omitempty" validate:"required"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	Timestamps
}

// NewVipUser validates a new account.
func NewVipUser(username, password string) (VipUser, error) {
	u := VipUser{Username: username, Password: password}
	return u, u.Validate()
}

func (u *VipUser) Key() string      { return u.ID }
func (u *VipUser) SetKey(id string) { u.ID = id }
func (u *VipUser) Validate() error  { return validateStruct(u) }

// Redacted returns a copy without the password, the shape kept in a session.
func (u VipUser) Redacted() VipUser {
	u.Password = ""
	u.UpdatedAt = time.Time{}
	return u
}

// Masked returns a copy whose password reads "***", for admin listings.
func (u VipUser) Masked() VipUser {
	u.Password = common.RedactedPassword
	return u
}

// VipContentItem is a document under vip-content/{id}. It has the download
// shape minus the VIP flag, since all of it is VIP-only.
type VipContentItem struct {
	ID            string           `json:"id,omitempty"`
	Title         string           `json:"title,omitempty" validate:"required"`
	Description   string           `json:"description,omitempty"`
	Category      string           `json:"category,omitempty"`
	Version       string           `json:"version,omitempty"`
	FileSize      string           `json:"fileSize,omitempty"`
	DownloadURL   string           `json:"downloadUrl,omitempty"`
	Screenshots   []string         `json:"screenshots,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
	Requirements  []string         `json:"requirements,omitempty"`
	Changelog     []ChangelogEntry `json:"changelog,omitempty"`
	IsVisible     bool             `json:"isVisible"`
	DownloadCount int64            `json:"downloadCount,omitempty"`
	Timestamps
}

// NewVipContentItem builds visible VIP content and validates it.
func NewVipContentItem(title, description string) (VipContentItem, error) {
	c := VipContentItem{Title: title, Description: description, IsVisible: true}
	return c, c.Validate()
}

func (c *VipContentItem) Key() string      { return c.ID }
func (c *VipContentItem) SetKey(id string) { c.ID = id }
func (c *VipContentItem) Validate() error  { return validateStruct(c) }
