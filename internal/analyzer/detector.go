package analyzer

import "image"

// Block types assigned by Classify
const (
	TypeHeader = "header"
	TypeText   = "text"
	TypeImage  = "image"
)

// Block represents a detected region of interest in an image
type Block struct {
	Rect       image.Rectangle
	Type       string
	Confidence float64 // 0.0-1.0
}

// Detector is the interface for image analysis strategies
type Detector interface {
	Detect(img image.Image) ([]Block, error)
}

// Classify guesses the block type from its shape: wide and short strips are
// headers, other wide regions are text, the rest is treated as an image.
func Classify(r image.Rectangle) string {
	w, h := r.Dx(), r.Dy()
	if h == 0 {
		return TypeText
	}
	aspect := float64(w) / float64(h)
	switch {
	case aspect >= 6:
		return TypeHeader
	case aspect >= 2:
		return TypeText
	default:
		return TypeImage
	}
}
