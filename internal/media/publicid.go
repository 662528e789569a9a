// AngelaMos | 2026
// publicid.go

package media

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var versionSegment = regexp.MustCompile(`^v\d+$`)

// PublicIDFromURL recovers the asset id from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/c_fill,w_200/v1712/storefront/mug.jpg
// which yields "storefront/mug". Transformation segments before the version
// are skipped.
func PublicIDFromURL(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	start := -1
	for i, seg := range segments {
		if seg == "upload" {
			start = i + 1
			break
		}
	}
	if start < 0 || start >= len(segments) {
		return "", false
	}

	rest := segments[start:]
	for i, seg := range rest {
		if versionSegment.MatchString(seg) {
			rest = rest[i+1:]
			break
		}
	}
	if len(rest) == 0 {
		return "", false
	}

	id := strings.Join(rest, "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == "" {
		return "", false
	}

	return id, true
}
