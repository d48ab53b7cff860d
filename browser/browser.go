// Package browser is the boundary to the rendering collaborator. The engine
// reads page structure from an immutable DOM snapshot and reaches back into
// the live page only to activate elements and navigate.
package browser

import "context"

// PageInfo identifies the currently rendered document.
type PageInfo struct {
	URL   string
	Title string
}

// Browser is the rendering collaborator consumed by the extraction engine.
// All structural reads go through CaptureSnapshot; Activate and ScrollIntoView
// take handles obtained from the most recent snapshot and resolve them against
// the live document.
type Browser interface {
	CurrentPage(ctx context.Context) (PageInfo, error)
	CaptureSnapshot(ctx context.Context) (*Snapshot, error)
	Navigate(ctx context.Context, url string) error
	Activate(ctx context.Context, h Handle) error
	ScrollIntoView(ctx context.Context, h Handle) error
	Ready(ctx context.Context) (bool, error)
	Close() error
}
