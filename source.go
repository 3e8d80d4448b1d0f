package readlater

import (
	"context"
	"regexp"
	"slices"
)

// URLSource expands a single source (a sitemap, a feed) into the page URLs
// it lists.
type URLSource interface {
	Discover(ctx context.Context, source string) ([]string, error)
}

// URLFilter narrows discovered URLs with regular expressions. A URL
// passes when it matches any Include pattern (or Include is empty) and
// matches no Exclude pattern. A nil *URLFilter passes everything.
type URLFilter struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

// NewURLFilter compiles include and exclude patterns into a filter. It
// returns nil when both lists are empty.
func NewURLFilter(include, exclude []string) (*URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	var f URLFilter
	var err error
	if f.Include, err = compilePatterns(include); err != nil {
		return nil, err
	}
	if f.Exclude, err = compilePatterns(exclude); err != nil {
		return nil, err
	}
	return &f, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid filter pattern %q: %v", p, err)
		}
		res = append(res, re)
	}
	return res, nil
}

// Match reports whether url passes the filter.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	matches := func(re *regexp.Regexp) bool { return re.MatchString(url) }
	if len(f.Include) > 0 && !slices.ContainsFunc(f.Include, matches) {
		return false
	}
	return !slices.ContainsFunc(f.Exclude, matches)
}

// Apply returns the URLs that pass the filter, in their original order.
func (f *URLFilter) Apply(urls []string) []string {
	if f == nil {
		return urls
	}
	return slices.DeleteFunc(slices.Clone(urls), func(u string) bool {
		return !f.Match(u)
	})
}
