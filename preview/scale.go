package preview

import "math"

// Default size of the preview viewport in CSS pixels.
const (
	DefaultViewportWidth  = 500
	DefaultViewportHeight = 400
)

// FitScale returns the factor to scale content of size contentW x contentH
// into a viewport of maxW x maxH, keeping the aspect ratio. Unknown content
// sizes (<= 0) are not scaled.
func FitScale(contentW, contentH, maxW, maxH float64) float64 {
	if contentW <= 0 || contentH <= 0 || maxW <= 0 || maxH <= 0 {
		return 1
	}
	return math.Min(maxW/contentW, maxH/contentH)
}
