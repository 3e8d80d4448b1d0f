package main

import (
	"fmt"

	"github.com/fwojciec/readlater"
)

// Run executes the inspect command.
func (c *InspectCmd) Run(deps *Dependencies) error {
	html, err := loadHTML(deps, c.URL, c.HTMLFile)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	insp, err := deps.Inspector.Inspect(&readlater.Page{URL: c.URL, HTML: html})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "match:   %s\n", insp.Match)
	fmt.Fprintf(deps.Stdout, "removed: %d\n", insp.Removed)
	fmt.Fprintln(deps.Stdout)

	if !c.Markdown {
		fmt.Fprintln(deps.Stdout, insp.Content)
		return nil
	}

	md, err := deps.Converter.ConvertNode(insp.Pruned)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error converting: %v\n", err)
		return err
	}
	fmt.Fprintln(deps.Stdout, md)
	return nil
}
