package content

import (
	"net/http"
	"os"
	"strconv"
	"strings"
)

// Preview request markers set by the CMS visual editor.
const (
	PreviewQueryParam = "builder.preview"
	PreviewHeader     = "X-Builder-Preview"
	PreviewEnvVar     = "PREVIEW_MODE"
)

// Detector decides whether a request comes from a CMS editing session.
// Detection fails closed, anything ambiguous is treated as a live shopper.
type Detector struct {
	envOverride bool
}

// NewDetector creates a detector, reading the process-wide override once
func NewDetector() *Detector {
	override, _ := strconv.ParseBool(os.Getenv(PreviewEnvVar))
	return &Detector{envOverride: override}
}

// IsPreviewing reports whether the request is part of an editor session
func (d *Detector) IsPreviewing(r *http.Request) bool {
	if d.envOverride {
		return true
	}
	if r == nil {
		return false
	}
	if v := r.URL.Query().Get(PreviewQueryParam); isTruthy(v) {
		return true
	}
	if v := r.Header.Get(PreviewHeader); isTruthy(v) {
		return true
	}
	return false
}

func isTruthy(v string) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "" || v == "false" || v == "0" {
		return false
	}
	return true
}
