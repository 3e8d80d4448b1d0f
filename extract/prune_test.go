package extract_test

import (
	"testing"

	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/extract"
	"github.com/stretchr/testify/assert"
)

func TestEngine_Prune(t *testing.T) {
	t.Parallel()

	t.Run("removes noise at any depth and counts subtrees", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<div><p>Keep<script>x()</script></p><section><div class="sidebar"><nav>Menu</nav></div></section></div>`)

		pruned, removed := extract.NewEngine().Prune(doc)

		assert.Equal(t, 2, removed)
		assert.Equal(t, "Keep", extract.Normalize(pruned))
	})

	t.Run("keeps a noisy root", func(t *testing.T) {
		t.Parallel()

		root := element("nav", element("p", text("Links")))

		pruned, removed := extract.NewEngine().Prune(root)

		assert.Zero(t, removed)
		assert.Equal(t, "Links", extract.Normalize(pruned))
	})

	t.Run("leaves the input untouched", func(t *testing.T) {
		t.Parallel()

		root := element("div", element("footer", text("Bye")), element("p", text("Hi")))

		_, removed := extract.NewEngine().Prune(root)

		assert.Equal(t, 1, removed)
		assert.Len(t, root.Children(), 2)
		assert.Equal(t, "ByeHi", readlater.TextContent(root))
	})
}
