package capture

import (
	"context"

	"github.com/fwojciec/readlater"
)

// ContentDiffers compares the article text extracted from a statically
// fetched page with the text extracted from the rendered page. It returns
// true when the rendered text is more than 50% longer, or present while the
// static text is empty, meaning scripts add content. Extraction errors also
// return true.
func ContentDiffers(pageURL, staticHTML, renderedHTML string, extractor readlater.Extractor) bool {
	static, err := extractor.Extract(&readlater.Page{URL: pageURL, HTML: staticHTML}, readlater.ExtractOptions{})
	if err != nil {
		return true
	}
	rendered, err := extractor.Extract(&readlater.Page{URL: pageURL, HTML: renderedHTML}, readlater.ExtractOptions{})
	if err != nil {
		return true
	}

	staticLen := len(static.Content)
	renderedLen := len(rendered.Content)
	if staticLen == 0 && renderedLen > 0 {
		return true
	}
	return float64(renderedLen) > float64(staticLen)*1.5
}

// ChooseFetcher fetches pageURL with both fetchers and returns the one to
// use for pages like it. A failed static fetch selects rendered, a failed
// render selects static. Otherwise rendered is chosen only when
// ContentDiffers says scripts matter.
//
// Always returns a fetcher; never fails.
func ChooseFetcher(
	ctx context.Context,
	pageURL string,
	static readlater.Fetcher,
	rendered readlater.Fetcher,
	extractor readlater.Extractor,
) readlater.Fetcher {
	staticHTML, err := static.Fetch(ctx, pageURL)
	if err != nil {
		return rendered
	}
	renderedHTML, err := rendered.Fetch(ctx, pageURL)
	if err != nil {
		return static
	}
	if ContentDiffers(pageURL, staticHTML, renderedHTML, extractor) {
		return rendered
	}
	return static
}
