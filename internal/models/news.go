package models

// NewsType classifies a news entry.
type NewsType string

const (
	NewsVideo        NewsType = "video"
	NewsAnnouncement NewsType = "announcement"
	NewsUpdate       NewsType = "update"
)

// Priority of a news entry.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// NewsItem is a document under news/{id}.
type NewsItem struct {
	ID        string   `json:"id,omitempty"`
	Title     string   `json:"title,omitempty" validate:"required"`
	Content   string   `json:"content,omitempty" validate:"required"`
	Type      NewsType `json:"type,omitempty" validate:"oneof=video announcement update"`
	Priority  Priority `json:"priority,omitempty" validate:"oneof=low medium high"`
	IsVisible bool     `json:"isVisible"`
	Timestamps
}

// NewNewsItem builds a visible announcement with medium priority, the
// defaults of the admin form, and validates it.
func NewNewsItem(title, content string) (NewsItem, error) {
	n := NewsItem{
		Title:     title,
		Content:   content,
		Type:      NewsAnnouncement,
		Priority:  PriorityMedium,
		IsVisible: true,
	}
	return n, n.Validate()
}

func (n *NewsItem) Key() string      { return n.ID }
func (n *NewsItem) SetKey(id string) { n.ID = id }
func (n *NewsItem) Validate() error  { return validateStruct(n) }
