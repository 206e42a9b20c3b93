package content

import "strings"

// DefaultType is returned for paths that match no known suffix.
const DefaultType = "text/plain"

// mimeTypes is checked in order; the first matching suffix wins.
var mimeTypes = []struct {
	suffix string
	typ    string
}{
	{".html", "text/html"},
	{".css", "text/css"},
	{".js", "text/javascript"},
	{".ico", "image/vnd.microsoft.icon"},
	{".gz", "application/gzip"},
	{".jpeg", "image/jpeg"},
	{"jpg", "image/jpeg"},
}

// TypeOf returns the MIME type for p based on its suffix.
func TypeOf(p string) string {
	for _, m := range mimeTypes {
		if strings.HasSuffix(p, m.suffix) {
			return m.typ
		}
	}
	return DefaultType
}
