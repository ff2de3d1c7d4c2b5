package models

// Stats is the admin overview.
type Stats struct {
	News           int
	Downloads      int
	VipUsers       int
	TotalDownloads int64
	TopDownloads   []DownloadItem
}
