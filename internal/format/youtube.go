package format

import (
	"fmt"
	"regexp"
)

var youTubeIDPattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

// YouTubeVideoID extracts the 11 character video id from a watch, embed or
// short link.
func YouTubeVideoID(url string) (string, bool) {
	m := youTubeIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

var thumbnailQualities = map[string]string{
	"default":  "default",
	"medium":   "mqdefault",
	"high":     "hqdefault",
	"standard": "sddefault",
	"maxres":   "maxresdefault",
}

// YouTubeThumbnail returns the thumbnail URL of a video. Unknown qualities
// fall back to "medium".
func YouTubeThumbnail(videoID, quality string) string {
	q, ok := thumbnailQualities[quality]
	if !ok {
		q = thumbnailQualities["medium"]
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", videoID, q)
}

// WatchURL returns the public watch page of a video.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
