package director

import (
	"fmt"

	"github.com/ivlev/scene2video/internal/analyzer"
	"github.com/ivlev/scene2video/internal/source"
)

// Analyze renders every page of src and runs the detector over it. path is
// the location recorded in the generated pictures.
func Analyze(src source.Source, path string, dpi int, det analyzer.Detector) ([]Page, error) {
	if dpi <= 0 {
		dpi = source.DefaultDPI
	}
	pages := make([]Page, 0, src.PageCount())
	for i := 0; i < src.PageCount(); i++ {
		img, err := src.RenderPage(i, dpi)
		if err != nil {
			return nil, fmt.Errorf("страница %d: %w", i+1, err)
		}
		blocks, err := det.Detect(img)
		if err != nil {
			return nil, fmt.Errorf("анализ страницы %d: %w", i+1, err)
		}
		fmt.Printf("[*] Страница %d: найдено блоков: %d\n", i+1, len(blocks))
		pages = append(pages, Page{
			Source: path,
			Index:  i,
			DPI:    dpi,
			Bounds: img.Bounds(),
			Blocks: blocks,
		})
	}
	return pages, nil
}
