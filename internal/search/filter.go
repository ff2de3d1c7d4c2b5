package search

import (
	"slices"
	"strings"

	"github.com/dmitrijs2005/qfvjug/internal/models"
)

// CategoryAll disables the category filter.
const CategoryAll = "all"

// Filter narrows items by a search term and a category.
type Filter[T any] func(items []T, term, category string) []T

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}

// Videos keeps videos whose category matches (case-insensitively, or as a
// substring of the title) and whose title or description contains term.
func Videos(items []models.VideoSummary, term, category string) []models.VideoSummary {
	term = strings.ToLower(strings.TrimSpace(term))
	category = strings.ToLower(strings.TrimSpace(category))

	out := make([]models.VideoSummary, 0, len(items))
	for _, v := range items {
		if category != "" && category != CategoryAll &&
			strings.ToLower(v.Category) != category && !containsFold(v.Title, category) {
			continue
		}
		if term != "" && !containsFold(v.Title, term) && !containsFold(v.Description, term) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Downloads keeps downloads in exactly category whose title, description or
// any tag contains term.
func Downloads(items []models.DownloadItem, term, category string) []models.DownloadItem {
	term = strings.ToLower(strings.TrimSpace(term))

	out := make([]models.DownloadItem, 0, len(items))
	for _, d := range items {
		if category != "" && category != CategoryAll && d.Category != category {
			continue
		}
		if term != "" && !containsFold(d.Title, term) && !containsFold(d.Description, term) &&
			!slices.ContainsFunc(d.Tags, func(tag string) bool { return containsFold(tag, term) }) {
			continue
		}
		out = append(out, d)
	}
	return out
}
