// Package common contains shared constants and sentinel errors used across
// the site components.
package common

// StoragePrefix namespaces every key written to the local preference store.
const StoragePrefix = "qfvjug-"

// Collection names of the document store.
const (
	CollectionNews       = "news"
	CollectionDownloads  = "downloads"
	CollectionVipUsers   = "vip-users"
	CollectionVipContent = "vip-content"
)

// RedactedPassword replaces VIP passwords in admin listings.
const RedactedPassword = "***"
