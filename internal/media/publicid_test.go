// AngelaMos | 2026
// publicid_test.go

package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{
			name:   "versioned with folder",
			url:    "https://res.cloudinary.com/demo/image/upload/v1712345678/storefront/mug.jpg",
			want:   "storefront/mug",
			wantOK: true,
		},
		{
			name:   "transformation before version",
			url:    "https://res.cloudinary.com/demo/image/upload/c_fill,w_200/v17/storefront/mug.webp",
			want:   "storefront/mug",
			wantOK: true,
		},
		{
			name:   "no version",
			url:    "https://res.cloudinary.com/demo/image/upload/mug.png",
			want:   "mug",
			wantOK: true,
		},
		{
			name:   "nested folders keep dots in names",
			url:    "https://res.cloudinary.com/demo/raw/upload/v3/a/b/report.v2.pdf",
			want:   "a/b/report.v2",
			wantOK: true,
		},
		{name: "empty", url: ""},
		{name: "not a delivery url", url: "https://example.com/images/mug.jpg"},
		{name: "nothing after upload", url: "https://res.cloudinary.com/demo/image/upload/"},
		{name: "only version", url: "https://res.cloudinary.com/demo/image/upload/v12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PublicIDFromURL(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
