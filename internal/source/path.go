package source

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// CaptionPathFor derives the caption JSON location from a media filename or
// URL by replacing its extension with .json.
func CaptionPathFor(media string) string {
	if IsRemote(media) {
		u, err := url.Parse(media)
		if err == nil {
			u.Path = swapExt(u.Path, path.Ext(u.Path))
			return u.String()
		}
	}
	return swapExt(media, filepath.Ext(media))
}

func swapExt(name, ext string) string {
	if strings.EqualFold(ext, ".json") {
		return name
	}
	return strings.TrimSuffix(name, ext) + ".json"
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
