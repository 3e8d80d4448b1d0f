package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/goquery"
)

// untitled is shown in previews of articles without a title.
const untitled = "Untitled Page"

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	article, err := c.article(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	if c.Format == "preview" {
		printPreview(deps.Stdout, article)
		return nil
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(article)
}

// Run executes the save command.
func (c *SaveCmd) Run(deps *Dependencies) error {
	article, err := c.article(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	saved, err := deps.Articles.CreateArticle(deps.Ctx, article)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %q (%s)\n", displayTitle(saved.Title), saved.ID)
	return nil
}

// article loads the page and runs the configured extractor on it.
func (f *ArticleFlags) article(deps *Dependencies) (*readlater.Article, error) {
	fidelity, err := readlater.ParseFidelity(f.Fidelity)
	if err != nil {
		return nil, err
	}

	html, err := loadHTML(deps, f.URL, f.HTMLFile)
	if err != nil {
		return nil, err
	}

	selection, err := f.selection(deps, html)
	if err != nil {
		return nil, err
	}

	return deps.Extractor.Extract(&readlater.Page{URL: f.URL, HTML: html}, readlater.ExtractOptions{
		Fidelity:  fidelity,
		Selection: selection,
	})
}

// selection resolves the user selection: literal text first, then a CSS
// selector on the live page when a renderer is available, else on html.
func (f *ArticleFlags) selection(deps *Dependencies, html string) (*readlater.Selection, error) {
	switch {
	case f.Selection != "":
		return &readlater.Selection{Text: f.Selection}, nil
	case f.Select == "":
		return nil, nil
	case deps.Selector != nil && f.HTMLFile == "":
		return deps.Selector.FetchSelection(deps.Ctx, f.URL, f.Select)
	default:
		return goquery.SelectText(html, f.Select)
	}
}

// loadHTML reads the page from path when given, otherwise fetches url.
func loadHTML(deps *Dependencies, url, path string) (string, error) {
	if path == "" {
		return deps.Fetcher.Fetch(deps.Ctx, url)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", readlater.Errorf(readlater.EINVALID, "read %s: %v", path, err)
	}
	return string(b), nil
}

func printPreview(w io.Writer, a *readlater.Article) {
	fmt.Fprintln(w, displayTitle(a.Title))
	fmt.Fprintf(w, "%s · %s\n", a.Domain(), a.Metadata.ReadingTime)
	if a.Summary != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, a.Summary)
	}
}

func displayTitle(title string) string {
	if title == "" {
		return untitled
	}
	return title
}
