package analyzer

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// ContrastDetector finds regions of interest with a Sobel edge map, a box
// dilation that glues nearby edges into blobs, and connected components.
type ContrastDetector struct {
	MinBlockArea  int     // pixels²
	EdgeThreshold float64 // gradient magnitude threshold
	DilateRadius  int
}

func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinBlockArea:  500,
		EdgeThreshold: 30.0,
		DilateRadius:  4,
	}
}

func (d *ContrastDetector) Detect(img image.Image) ([]Block, error) {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Rect, img, b.Min, draw.Src)

	mask := sobel(gray, d.EdgeThreshold)
	mask = dilate(mask, gray.Rect.Dx(), gray.Rect.Dy(), d.DilateRadius)

	var blocks []Block
	for _, r := range components(mask, gray.Rect.Dx(), gray.Rect.Dy()) {
		if r.Dx()*r.Dy() < d.MinBlockArea {
			continue
		}
		blocks = append(blocks, Block{
			Rect:       r.Add(b.Min),
			Type:       Classify(r),
			Confidence: 0.7,
		})
	}
	return blocks, nil
}

// sobel returns a w*h edge mask; border pixels are never edges.
func sobel(gray *image.Gray, threshold float64) []bool {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	mask := make([]bool, w*h)
	px := func(x, y int) float64 {
		return float64(gray.Pix[y*gray.Stride+x])
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := px(x+1, y-1) + 2*px(x+1, y) + px(x+1, y+1) -
				px(x-1, y-1) - 2*px(x-1, y) - px(x-1, y+1)
			gy := px(x-1, y+1) + 2*px(x, y+1) + px(x+1, y+1) -
				px(x-1, y-1) - 2*px(x, y-1) - px(x+1, y-1)
			mask[y*w+x] = math.Hypot(gx, gy) > threshold
		}
	}
	return mask
}

// dilate grows the mask by r pixels in every direction. A square kernel is
// separable, so it runs as a horizontal then a vertical pass.
func dilate(mask []bool, w, h, r int) []bool {
	if r <= 0 {
		return mask
	}
	tmp := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		row := mask[y*w : (y+1)*w]
		last := -r - 1 // last set pixel seen
		for x := 0; x < w; x++ {
			if row[x] {
				last = x
			}
			if x-last <= r {
				tmp[y*w+x] = true
			}
		}
		last = w + r + 1
		for x := w - 1; x >= 0; x-- {
			if row[x] {
				last = x
			}
			if last-x <= r {
				tmp[y*w+x] = true
			}
		}
	}

	out := make([]bool, len(mask))
	for x := 0; x < w; x++ {
		last := -r - 1
		for y := 0; y < h; y++ {
			if tmp[y*w+x] {
				last = y
			}
			if y-last <= r {
				out[y*w+x] = true
			}
		}
		last = h + r + 1
		for y := h - 1; y >= 0; y-- {
			if tmp[y*w+x] {
				last = y
			}
			if last-y <= r {
				out[y*w+x] = true
			}
		}
	}
	return out
}

// components returns the bounding rectangle of every 4-connected region.
func components(mask []bool, w, h int) []image.Rectangle {
	visited := make([]bool, len(mask))
	var rects []image.Rectangle
	var stack []int

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}
		r := image.Rect(start%w, start/w, start%w+1, start/w+1)
		visited[start] = true
		stack = append(stack[:0], start)

		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%w, i/w
			r = r.Union(image.Rect(x, y, x+1, y+1))

			for _, n := range [4]int{i - 1, i + 1, i - w, i + w} {
				if n < 0 || n >= len(mask) || visited[n] || !mask[n] {
					continue
				}
				// left/right neighbours must stay on the same row
				if (n == i-1 || n == i+1) && n/w != y {
					continue
				}
				visited[n] = true
				stack = append(stack, n)
			}
		}
		rects = append(rects, r)
	}
	return rects
}
