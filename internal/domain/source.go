package domain

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// SourceID identifies an entry of the source catalog
type SourceID string

const (
	SourceTools SourceID = "tools"
	SourceVideo SourceID = "video"
)

// Source describes a category of downloadable content on the vendor site.
// Entries are fixed at compile time; see Sources.
type Source struct {
	ID            SourceID `json:"id"`
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	RequiresToken bool     `json:"requires_token"`
	Executable    string   `json:"executable"`
}

// AuthDomain is the host the vendor redirects to when a login is needed
const AuthDomain = "idmsa.apple.com"

// helperScript is the download helper shipped alongside the binary
const helperScript = "AppleMoreDownload.sh"

var catalog = []Source{
	{
		ID:            SourceTools,
		URL:           "https://developer.apple.com/download/more/",
		Title:         "Developer Tools",
		RequiresToken: true,
		Executable:    helperScript,
	},
	{
		ID:            SourceVideo,
		URL:           "https://developer.apple.com/videos/",
		Title:         "WWDC Videos",
		RequiresToken: false,
		Executable:    helperScript,
	},
}

// Sources returns a copy of the catalog in display order
func Sources() []Source {
	out := make([]Source, len(catalog))
	copy(out, catalog)
	return out
}

// SourceByID looks up a catalog entry
func SourceByID(id string) (Source, error) {
	for _, s := range catalog {
		if string(s.ID) == strings.ToLower(strings.TrimSpace(id)) {
			return s, nil
		}
	}
	return Source{}, fmt.Errorf("%w: %q", ErrUnknownSource, id)
}

// supportedExtensions are the file types the front end hands to the helper
var supportedExtensions = map[string]struct{}{
	"dmg": {},
	"xip": {},
	"pkg": {},
	"zip": {},
	"gz":  {},
	"mp4": {},
	"mov": {},
	"pdf": {},
}

// IsDownloadable reports whether the URL path ends in a supported extension.
func IsDownloadable(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")
	if ext == "" {
		return false
	}
	_, ok := supportedExtensions[ext]
	return ok
}
