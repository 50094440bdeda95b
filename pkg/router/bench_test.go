package router

import (
	"fmt"
	"testing"

	"github.com/vango-dev/approute/pkg/approute"
)

func benchMatcher(b *testing.B, dirs ...string) *Matcher {
	b.Helper()
	routes := make([]ScannedRoute, len(dirs))
	for i, dir := range dirs {
		routes[i] = leaf(b, dir, approute.PageTypePage)
	}
	return NewMatcher(routes)
}

// BenchmarkMatchStatic benchmarks matching a static route.
func BenchmarkMatchStatic(b *testing.B) {
	m := benchMatcher(b, "/", "/about", "/contact", "/pricing", "/features")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Match("/about")
	}
}

// BenchmarkMatchParams benchmarks matching nested dynamic segments.
func BenchmarkMatchParams(b *testing.B) {
	m := benchMatcher(b, "/users/[userId]/posts/[postId]/comments/[commentId]")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Match("/users/1/posts/2/comments/3")
	}
}

// BenchmarkMatchCatchAll benchmarks a deep catch-all match.
func BenchmarkMatchCatchAll(b *testing.B) {
	m := benchMatcher(b, "/docs/[...slug]")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Match("/docs/guide/routing/dynamic/segments")
	}
}

// BenchmarkMatchManyRoutes benchmarks matching among many sibling routes.
func BenchmarkMatchManyRoutes(b *testing.B) {
	dirs := make([]string, 0, 200)
	for i := 0; i < 100; i++ {
		dirs = append(dirs, fmt.Sprintf("/section%d", i), fmt.Sprintf("/section%d/[id]", i))
	}
	m := benchMatcher(b, dirs...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Match("/section99/42")
	}
}

// BenchmarkSortBySpecificity benchmarks ordering a route set.
func BenchmarkSortBySpecificity(b *testing.B) {
	base := []ScannedRoute{
		leaf(b, "/[[...all]]", approute.PageTypePage),
		leaf(b, "/blog/[id]", approute.PageTypePage),
		leaf(b, "/", approute.PageTypePage),
		leaf(b, "/blog/latest", approute.PageTypePage),
		leaf(b, "/blog/[...rest]", approute.PageTypeRoute),
	}
	routes := make([]ScannedRoute, len(base))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(routes, base)
		SortBySpecificity(routes)
	}
}
