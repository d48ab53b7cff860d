package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"property-extractor/config"
	"property-extractor/utils"
)

const opTimeout = 30 * time.Second

// Chrome drives a real Chrome/Chromium instance through the DevTools
// protocol. It either launches its own headless browser or attaches to an
// already-running session over the remote debugging port, so a search
// performed in a separate browser window can be handed off for extraction.
type Chrome struct {
	logger  *utils.Logger
	tabCtx  context.Context
	cancels []context.CancelFunc
}

// NewChrome connects to the browser described by cfg. When RemoteDebugURL is
// set it attaches to that session; otherwise it launches a fresh instance.
func NewChrome(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*Chrome, error) {
	c := &Chrome{logger: logger}

	var allocCtx context.Context
	var cancelAlloc context.CancelFunc

	if cfg.RemoteDebugURL != "" {
		logger.Info("[browser] Attaching to existing session at %s", cfg.RemoteDebugURL)
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, cfg.RemoteDebugURL)
	} else {
		chromeBin := findChromeBinary(cfg.ChromeBin)
		logger.Info("[browser] Using browser binary: %s", chromeBin)

		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", cfg.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
				"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		)
		if chromeBin != "" {
			opts = append(opts, chromedp.ExecPath(chromeBin))
		}
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx, opts...)
	}
	c.cancels = append(c.cancels, cancelAlloc)

	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	c.cancels = append(c.cancels, cancelTab)
	c.tabCtx = tabCtx

	return c, nil
}

// CurrentPage returns the URL and title of the active document.
func (c *Chrome) CurrentPage(ctx context.Context) (PageInfo, error) {
	runCtx, cancel := c.runContext(ctx)
	defer cancel()

	var info PageInfo
	err := chromedp.Run(runCtx,
		chromedp.Location(&info.URL),
		chromedp.Title(&info.Title),
	)
	if err != nil {
		return PageInfo{}, fmt.Errorf("browser: current page: %w", err)
	}
	return info, nil
}

// CaptureSnapshot serializes the live DOM and parses it into a Snapshot.
func (c *Chrome) CaptureSnapshot(ctx context.Context) (*Snapshot, error) {
	runCtx, cancel := c.runContext(ctx)
	defer cancel()

	var src string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &src)); err != nil {
		return nil, fmt.Errorf("browser: capture dom: %w", err)
	}
	return ParseSnapshot(src)
}

// Navigate loads the given URL in the active tab.
func (c *Chrome) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := c.runContext(ctx)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	return nil
}

// Activate clicks the live element matching the snapshot handle's CSS path.
// The click runs inside the page so overlapping elements cannot swallow it.
func (c *Chrome) Activate(ctx context.Context, h Handle) error {
	path := h.CSSPath()
	if path == "" {
		return fmt.Errorf("browser: activate: empty element path")
	}

	runCtx, cancel := c.runContext(ctx)
	defer cancel()

	var clicked bool
	script := fmt.Sprintf(
		`(function(){var el=document.querySelector(%q); if(!el){return false;} el.click(); return true;})()`, path)
	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, &clicked)); err != nil {
		return fmt.Errorf("browser: activate %s: %w", path, err)
	}
	if !clicked {
		return fmt.Errorf("browser: activate %s: element no longer present", path)
	}
	return nil
}

// ScrollIntoView scrolls the live element matching the handle into view.
func (c *Chrome) ScrollIntoView(ctx context.Context, h Handle) error {
	path := h.CSSPath()
	if path == "" {
		return fmt.Errorf("browser: scroll: empty element path")
	}

	runCtx, cancel := c.runContext(ctx)
	defer cancel()

	script := fmt.Sprintf(
		`(function(){var el=document.querySelector(%q); if(el){el.scrollIntoView(true);}})()`, path)
	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, nil)); err != nil {
		return fmt.Errorf("browser: scroll %s: %w", path, err)
	}
	return nil
}

// Ready reports whether the document has finished loading.
func (c *Chrome) Ready(ctx context.Context) (bool, error) {
	runCtx, cancel := c.runContext(ctx)
	defer cancel()

	var ready bool
	err := chromedp.Run(runCtx, chromedp.Evaluate(`document.readyState === "complete"`, &ready))
	if err != nil {
		return false, fmt.Errorf("browser: readyState: %w", err)
	}
	return ready, nil
}

// Close releases the tab and allocator.
func (c *Chrome) Close() error {
	for i := len(c.cancels) - 1; i >= 0; i-- {
		c.cancels[i]()
	}
	return nil
}

// runContext derives a bounded chromedp context that also honors the
// caller's cancellation.
func (c *Chrome) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancelTimeout := context.WithTimeout(c.tabCtx, opTimeout)
	stop := context.AfterFunc(ctx, cancelTimeout)
	return runCtx, func() {
		stop()
		cancelTimeout()
	}
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
