package models

// ChangelogEntry is one version in a download's history.
type ChangelogEntry struct {
	Version string   `json:"version,omitempty"`
	Date    string   `json:"date,omitempty"`
	Changes []string `json:"changes,omitempty"`
}

// DownloadItem is a document under downloads/{id}.
//
// DownloadCount is only ever written through the increment path. Whole
// record writes leave it out of the document.
type DownloadItem struct {
	ID            string           `json:"id,omitempty"`
	Title         string           `json:"title,omitempty" validate:"required"`
	Description   string           `json:"description,omitempty"`
	Category      string           `json:"category,omitempty" validate:"required"`
	Version       string           `json:"version,omitempty"`
	FileSize      string           `json:"fileSize,omitempty"`
	DownloadURL   string           `json:"downloadUrl,omitempty" validate:"required"`
	Screenshots   []string         `json:"screenshots,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
	Requirements  []string         `json:"requirements,omitempty"`
	Changelog     []ChangelogEntry `json:"changelog,omitempty" validate:"dive"`
	IsVipOnly     bool             `json:"isVipOnly"`
	IsVisible     bool             `json:"isVisible"`
	DownloadCount int64            `json:"downloadCount,omitempty"`
	Timestamps
}

// NewDownloadItem builds a visible, public download and validates it.
func NewDownloadItem(title, category, downloadURL string) (DownloadItem, error) {
	d := DownloadItem{
		Title:       title,
		Category:    category,
		DownloadURL: downloadURL,
		IsVisible:   true,
	}
	return d, d.Validate()
}

func (d *DownloadItem) Key() string      { return d.ID }
func (d *DownloadItem) SetKey(id string) { d.ID = id }
func (d *DownloadItem) Validate() error  { return validateStruct(d) }
