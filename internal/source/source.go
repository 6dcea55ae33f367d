package source

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Source is a paged collection of images: PDF pages or image files.
type Source interface {
	PageCount() int
	GetPageDimensions(index int) (width, height float64, err error)
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// DefaultDPI is used when a picture does not specify one.
const DefaultDPI = 150

// Open picks the source implementation by file extension.
func Open(path string) (Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewFitzPDFSource(path)
	}
	return NewImageSource(path)
}

// LoadPage opens path and renders one page of it. It is the image loader
// behind picture objects in scenario files.
func LoadPage(path string, page, dpi int) (image.Image, error) {
	src, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	if page < 0 || page >= src.PageCount() {
		return nil, fmt.Errorf("%s: page %d out of range (pages: %d)", path, page, src.PageCount())
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	img, err := src.RenderPage(page, dpi)
	if err != nil {
		return nil, fmt.Errorf("render %s page %d: %w", path, page, err)
	}
	return img, nil
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) GetPageDimensions(index int) (float64, float64, error) {
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

// RenderPage opens a private document handle so that pages can be rendered
// from several goroutines.
func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
