// Package readlater captures web pages as read-it-later articles.
// It locates a page's main editorial content, strips the noise around it,
// and derives a normalized article record that a backend can store.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, gofeed/). The
// extraction engine itself lives in extract/.
package readlater
