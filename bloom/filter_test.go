package bloom_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/readlater/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("https://example.com/post-1"))

	f.Add("https://example.com/post-1")

	assert.True(t, f.Test("https://example.com/post-1"))
	assert.False(t, f.Test("https://example.com/post-2"))
}

func TestFilter_Seen(t *testing.T) {
	t.Parallel()

	t.Run("reports repeats of the same article", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(100, 0.01)

		assert.False(t, f.Seen("https://Example.com/post/#comments"))
		assert.True(t, f.Seen("https://example.com/post"))
		assert.True(t, f.Seen("https://example.com/post#top"))
		assert.False(t, f.Seen("https://example.com/other"))
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				f.Seen(fmt.Sprintf("https://example.com/%d", i%10))
			}()
		}
		wg.Wait()

		for i := range 10 {
			assert.True(t, f.Test(fmt.Sprintf("https://example.com/%d", i)))
		}
	})
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/a/#frag", "https://example.com/a"},
		{"HTTPS://EXAMPLE.com/Case", "https://example.com/Case"},
		{"https://example.com/", "https://example.com/"},
		{"https://example.com/a?x=1#y", "https://example.com/a?x=1"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, bloom.Canonical(tc.in), "input %q", tc.in)
	}
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(10000, 0.01)
	for i := 0; i < 10000; i++ {
		f.Add(fmt.Sprintf("https://example.com/article/%d", i))
	}

	falsePositives := 0
	for i := 10000; i < 20000; i++ {
		if f.Test(fmt.Sprintf("https://example.com/article/%d", i)) {
			falsePositives++
		}
	}

	// Allow some slack over the configured 1% rate.
	assert.Less(t, falsePositives, 300)
}
