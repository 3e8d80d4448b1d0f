package main

import (
	"fmt"

	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/capture"
)

// Run executes the capture command.
func (c *CaptureCmd) Run(deps *Dependencies) error {
	filter, err := readlater.NewURLFilter(c.Filter, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	urls, err := deps.Source.Discover(deps.Ctx, c.Source)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}
	urls = filter.Apply(urls)

	if c.Preview {
		for _, u := range urls {
			fmt.Fprintln(deps.Stdout, u)
		}
		return nil
	}

	if len(urls) == 0 {
		fmt.Fprintln(deps.Stdout, "No URLs found")
		return nil
	}

	fidelity, err := readlater.ParseFidelity(c.Fidelity)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}
	deps.Capturer.Options.Fidelity = fidelity
	if c.Concurrency > 0 {
		deps.Capturer.Concurrency = c.Concurrency
	}
	if deps.Rendered != nil {
		deps.Capturer.Fetcher = capture.ChooseFetcher(deps.Ctx, urls[0], deps.Fetcher, deps.Rendered, deps.Extractor)
		if deps.Capturer.Fetcher == deps.Rendered {
			fmt.Fprintln(deps.Stdout, "Rendering pages in headless Chrome")
		}
	}

	progress := func(event capture.ProgressEvent) {
		switch event.Type {
		case capture.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Found %d URLs\n", event.Total)
		case capture.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.URL, event.Error)
		case capture.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", event.Completed, event.Total, event.URL)
		}
	}

	result, err := deps.Capturer.CaptureAll(deps.Ctx, urls, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error capturing: %v\n", err)
		return err
	}

	for _, it := range result.Items {
		if it.Saved == nil && it.Err != nil && it.Article != nil {
			fmt.Fprintf(deps.Stderr, "  not saved %s: %v\n", it.URL, it.Err)
		}
	}

	fmt.Fprintf(deps.Stdout, "Captured %d, saved %d, failed %d, duplicates %d\n",
		result.Captured, result.Saved, result.Failed, result.Duplicates)
	if words := wordsToRead(result.Articles()); words > 0 {
		fmt.Fprintf(deps.Stdout, "%d words to read\n", words)
	}

	if c.MetricsFile != "" && deps.Metrics != nil {
		if err := deps.Metrics.WriteFile(c.MetricsFile); err != nil {
			fmt.Fprintf(deps.Stderr, "error writing metrics: %v\n", err)
			return err
		}
	}
	return nil
}

// wordsToRead totals the word counts of articles. Articles captured at
// basic fidelity carry no count and add nothing.
func wordsToRead(articles []*readlater.Article) int {
	var n int
	for _, a := range articles {
		if a.Metadata.WordCount != nil {
			n += *a.Metadata.WordCount
		}
	}
	return n
}
