// Package format renders numbers, sizes and dates the way the site shows
// them (German locale) and holds a few YouTube URL helpers.
package format
