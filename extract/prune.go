package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readlater"
	"golang.org/x/net/html"
)

// Prune deep-copies n and removes every descendant matching a noise
// pattern, at any depth. It returns the pruned copy and the number of
// subtrees removed. The input tree is never modified.
//
// Pruning everything away is not an error: the copy is simply left with
// nothing to serialize.
func (e *Engine) Prune(n readlater.Node) (*html.Node, int) {
	root := clone(n, nil)
	return root, e.prune(root)
}

// prune removes noise below root in place. A match nested inside another
// match goes with its ancestor and is not counted separately. root itself
// is never removed.
func (e *Engine) prune(root *html.Node) int {
	noise := goquery.NewDocumentFromNode(root).FindMatcher(e.noisePatterns)
	outermost := noise.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ParentsUntilNodes(root).FilterMatcher(e.noisePatterns).Length() == 0
	})
	outermost.Remove()
	return outermost.Length()
}
