package content_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/velostore/storefront/internal/content"
)

func TestIsPreviewingQueryParam(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{name: "marker present", url: "/?builder.preview=true", want: true},
		{name: "any non-false value", url: "/?builder.preview=page", want: true},
		{name: "explicit false", url: "/?builder.preview=false", want: false},
		{name: "explicit zero", url: "/?builder.preview=0", want: false},
		{name: "empty value", url: "/?builder.preview=", want: false},
		{name: "no marker", url: "/", want: false},
	}

	detector := content.NewDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			assert.Equal(t, tt.want, detector.IsPreviewing(r))
		})
	}
}

func TestIsPreviewingHeader(t *testing.T) {
	detector := content.NewDetector()

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set(content.PreviewHeader, "true")
	assert.True(t, detector.IsPreviewing(r))

	r = httptest.NewRequest("GET", "/", nil)
	r.Header.Set(content.PreviewHeader, "FALSE")
	assert.False(t, detector.IsPreviewing(r))
}

func TestIsPreviewingEnvOverride(t *testing.T) {
	t.Setenv(content.PreviewEnvVar, "true")
	detector := content.NewDetector()

	r := httptest.NewRequest("GET", "/", nil)
	assert.True(t, detector.IsPreviewing(r), "override applies to every request")
	assert.True(t, detector.IsPreviewing(nil))
}

func TestIsPreviewingEnvOverrideInvalid(t *testing.T) {
	t.Setenv(content.PreviewEnvVar, "not-a-bool")
	detector := content.NewDetector()

	r := httptest.NewRequest("GET", "/", nil)
	assert.False(t, detector.IsPreviewing(r), "unparseable override fails closed")
}

func TestIsPreviewingNilRequest(t *testing.T) {
	detector := content.NewDetector()
	assert.False(t, detector.IsPreviewing(nil))
}
