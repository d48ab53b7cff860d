// Package scraper drives the page-by-page traversal: structure analysis,
// extraction, pagination advance and termination.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"property-extractor/browser"
	"property-extractor/config"
	"property-extractor/extract"
	"property-extractor/session"
	"property-extractor/utils"
)

const emptyPageLimit = 3

// Controller is the pagination state machine. It owns the traversal loop:
// classify the current page, extract, append to the session, checkpoint,
// then advance — strictly sequential, one page at a time.
type Controller struct {
	cfg         *config.Config
	logger      *utils.Logger
	browser     browser.Browser
	extractor   *extract.Extractor
	session     *session.Session
	checkpoints *session.CheckpointManager
	retry       *utils.RetryConfig
}

// New creates a ready-to-run Controller.
func New(cfg *config.Config, logger *utils.Logger, b browser.Browser,
	sess *session.Session, cp *session.CheckpointManager) *Controller {
	return &Controller{
		cfg:         cfg,
		logger:      logger,
		browser:     b,
		extractor:   extract.New(logger),
		session:     sess,
		checkpoints: cp,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Run executes the traversal until a termination condition fires. The
// session always reflects whatever was accumulated, whichever way Run ends;
// persisting it is the caller's responsibility.
func (c *Controller) Run(ctx context.Context) error {
	if c.cfg.StartURL != "" {
		c.logger.Info("[scraper] Navigating to start URL: %s", c.cfg.StartURL)
		err := c.retry.Do(ctx, "navigate-start", func() error {
			return c.browser.Navigate(ctx, c.cfg.StartURL)
		})
		if err != nil {
			return c.fatal(ctx, fmt.Errorf("start navigation: %w", err))
		}
		c.awaitSettled(ctx)
	}

	if info, err := c.browser.CurrentPage(ctx); err == nil {
		c.logger.Info("[scraper] Connected to page: %q (%s)", info.Title, info.URL)
	}

	if err := c.verifyResultsReady(ctx); err != nil {
		return c.fatal(ctx, err)
	}

	snap, err := c.capture(ctx)
	if err != nil {
		return c.fatal(ctx, err)
	}

	// Detecting: runs once, at session start.
	c.detectPagination(snap)

	for {
		if interrupted(ctx) {
			c.session.Terminate(session.ReasonUserInterrupt)
			c.logger.Warn("[scraper] Interrupt received at page %d", c.session.CurrentPage)
			return nil
		}

		c.extractCurrentPage(snap)
		c.checkpoints.MaybeSnapshot(c.session)

		// Termination checks, fixed order.
		if c.session.EmptyStreak >= emptyPageLimit {
			c.session.Terminate(session.ReasonEmptyPages)
			c.logger.Info("[scraper] %d consecutive empty pages — stopping", emptyPageLimit)
			return nil
		}
		if c.session.TotalPages > 0 && c.session.CurrentPage >= c.session.TotalPages {
			c.session.Terminate(session.ReasonReachedKnownTotal)
			c.logger.Info("[scraper] Reached final page (%d) — extraction complete", c.session.TotalPages)
			return nil
		}
		if c.session.CurrentPage >= c.cfg.MaxPages {
			c.session.Terminate(session.ReasonMaxPageCap)
			c.logger.Warn("[scraper] Page cap (%d) reached — stopping", c.cfg.MaxPages)
			return nil
		}

		advanced, err := c.advance(ctx, snap)
		if err != nil {
			if interrupted(ctx) {
				c.session.Terminate(session.ReasonUserInterrupt)
				return nil
			}
			return c.fatal(ctx, err)
		}
		if !advanced {
			c.session.Terminate(session.ReasonNoNextAffordance)
			c.logger.Info("[scraper] No next-page affordance found — extraction complete")
			return nil
		}

		c.session.CurrentPage++
		c.pace(ctx)

		snap, err = c.capture(ctx)
		if err != nil {
			if interrupted(ctx) {
				c.session.Terminate(session.ReasonUserInterrupt)
				return nil
			}
			return c.fatal(ctx, err)
		}
	}
}

// extractCurrentPage classifies the snapshot, extracts its records and
// appends them to the session.
func (c *Controller) extractCurrentPage(snap *browser.Snapshot) {
	page := c.session.CurrentPage
	c.logger.Info("[scraper] Processing page %d%s", page, c.progressSuffix())

	cls := extract.Classify(snap)
	c.logger.Debug("[scraper] Page %d structure: %s", page, cls.Kind)

	records := c.extractor.ExtractPage(snap, cls, page)
	added := c.session.Append(records)
	c.logger.Info("[scraper] Page %d: %d records (%d new) — total so far: %d",
		page, len(records), added, c.session.Len())
}

func (c *Controller) progressSuffix() string {
	if c.session.TotalPages > 0 {
		return fmt.Sprintf(" of %d", c.session.TotalPages)
	}
	return ""
}

var pageOfRe = regexp.MustCompile(`(\d+)\s*(?:of|/)\s*(\d+)`)

const paginationQuery = ".pagination, .pager, [class*='page'], [id*='page']"

// detectPagination reads the total page count and current page number from
// the pagination UI. Both are best-effort: an unknown total simply disables
// the known-total termination check.
func (c *Controller) detectPagination(snap *browser.Snapshot) {
	for _, el := range snap.FindAll(paginationQuery) {
		if m := pageOfRe.FindStringSubmatch(el.Text()); m != nil {
			if total, err := strconv.Atoi(m[2]); err == nil && total > 0 {
				c.session.TotalPages = total
				break
			}
		}
	}

	if c.session.TotalPages == 0 {
		// Fall back to the highest numbered page link inside pagination UI.
		max := 0
		for _, nav := range snap.FindAll(paginationQuery) {
			for _, link := range nav.FindAll("a") {
				if n, err := strconv.Atoi(strings.TrimSpace(link.Text())); err == nil && n > max {
					max = n
				}
			}
		}
		c.session.TotalPages = max
	}

	// Current-page markers count only inside pagination UI; active elements
	// elsewhere on the page (tabs, badges) say nothing about the traversal.
markers:
	for _, nav := range snap.FindAll(paginationQuery) {
		for _, el := range nav.FindAll(".active, .current, [class*='active'], [class*='current']") {
			if n, err := strconv.Atoi(strings.TrimSpace(el.Text())); err == nil && n > 0 {
				c.session.CurrentPage = n
				break markers
			}
		}
	}

	if c.session.TotalPages > 0 {
		c.logger.Info("[scraper] Total pages detected: %d", c.session.TotalPages)
	} else {
		c.logger.Info("[scraper] Page count unknown — relying on empty-page and cap checks (max %d)", c.cfg.MaxPages)
	}
	c.logger.Info("[scraper] Starting from page: %d", c.session.CurrentPage)
}

// advance locates and activates the next-page affordance. Returning false
// with no error means no affordance exists — the normal end of traversal,
// not a failure.
func (c *Controller) advance(ctx context.Context, snap *browser.Snapshot) (bool, error) {
	next := findNextAffordance(snap, c.session.CurrentPage+1)
	if next.IsZero() {
		return false, nil
	}

	c.logger.Debug("[scraper] Activating next-page affordance: %q", next.Text())

	if err := c.browser.ScrollIntoView(ctx, next); err != nil {
		c.logger.Warn("[scraper] Scroll into view failed: %v", err)
	}

	err := c.retry.Do(ctx, "activate-next", func() error {
		return c.browser.Activate(ctx, next)
	})
	if err != nil {
		return false, fmt.Errorf("advance to page %d: %w", c.session.CurrentPage+1, err)
	}

	c.awaitSettled(ctx)
	return true, nil
}

// findNextAffordance tries a fixed, ordered list of selector strategies and
// returns the first visible, enabled match.
func findNextAffordance(snap *browser.Snapshot, nextPage int) browser.Handle {
	nextLabel := strconv.Itoa(nextPage)

	// Strategy 1: visible text "Next", ">" or the literal next page number.
	for _, el := range snap.FindAll("a, button, input") {
		label := el.Text()
		if label == "" {
			if v, ok := el.Attr("value"); ok {
				label = strings.TrimSpace(v)
			}
		}
		switch {
		case strings.EqualFold(label, "next"),
			strings.EqualFold(label, "next page"),
			label == ">", label == "»", label == nextLabel:
			if el.Visible() && el.Enabled() {
				return el
			}
		}
	}

	// Strategy 2: common naming patterns.
	for _, el := range snap.FindAll("a[rel='next'], [class*='next'], [id*='next']") {
		if el.Visible() && el.Enabled() {
			return el
		}
	}

	return browser.Handle{}
}

var errNotSettled = errors.New("document not settled")

// awaitSettled blocks until the collaborator reports the document settled,
// polling at a fixed interval. Each timed-out wait counts against the retry
// budget; exhausting the budget is logged and tolerated, never fatal.
func (c *Controller) awaitSettled(ctx context.Context) {
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		err := c.waitReadyOnce(ctx)
		if err == nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		c.logger.Warn("[scraper] Document not settled (attempt %d/%d): %v", attempt, c.cfg.MaxRetries, err)
	}
	c.logger.Warn("[scraper] Proceeding although the document never reported settled")
}

func (c *Controller) waitReadyOnce(ctx context.Context) error {
	timeout := time.Duration(c.cfg.ReadyTimeoutMs) * time.Millisecond
	poll := time.Duration(c.cfg.ReadyPollMs) * time.Millisecond
	deadline := time.Now().Add(timeout)

	for {
		ready, err := c.browser.Ready(ctx)
		if err == nil && ready {
			return nil
		}
		if time.Now().After(deadline) {
			return errNotSettled
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(poll):
		}
	}
}

// verifyResultsReady confirms the first page actually shows results before
// the loop starts: no loading indicators, some data present, document
// settled. Bounded attempts; failure is fatal because there is nothing to
// extract.
func (c *Controller) verifyResultsReady(ctx context.Context) error {
	const attempts = 5

	for attempt := 1; attempt <= attempts; attempt++ {
		if interrupted(ctx) {
			return ctx.Err()
		}

		snap, err := c.browser.CaptureSnapshot(ctx)
		if err == nil && resultsPresent(snap) {
			c.logger.Info("[scraper] Results page ready (attempt %d)", attempt)
			return nil
		}
		if err != nil {
			c.logger.Warn("[scraper] Verification attempt %d failed: %v", attempt, err)
		} else {
			c.logger.Debug("[scraper] Data still loading (attempt %d)", attempt)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}

	return errors.New("results page never became ready")
}

// resultsPresent checks for visible data without classifying it: any table
// data row, repeated result containers, or a reasonable amount of page text.
func resultsPresent(snap *browser.Snapshot) bool {
	for _, el := range snap.FindAll("[class*='loading'], [class*='spinner']") {
		if el.Visible() {
			return false
		}
	}
	if rows := snap.FindAll("table tr td"); len(rows) > 0 {
		return true
	}
	if els := snap.FindAll("[class*='result'], [class*='property']"); len(els) > 1 {
		return true
	}
	return len(strings.TrimSpace(snap.FullText())) > 200
}

// capture takes a fresh DOM snapshot with bounded retries.
func (c *Controller) capture(ctx context.Context) (*browser.Snapshot, error) {
	var snap *browser.Snapshot
	err := c.retry.Do(ctx, "capture-snapshot", func() error {
		var err error
		snap, err = c.browser.CaptureSnapshot(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("capture page %d: %w", c.session.CurrentPage, err)
	}
	return snap, nil
}

// pace inserts the inter-page delay. A cancelled context cuts it short.
func (c *Controller) pace(ctx context.Context) {
	delay := time.Duration(c.cfg.PageDelayMs) * time.Millisecond
	if delay <= 0 {
		return
	}
	c.logger.Debug("[scraper] Waiting %v before processing page %d", delay, c.session.CurrentPage)
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

func (c *Controller) fatal(ctx context.Context, err error) error {
	if interrupted(ctx) {
		c.session.Terminate(session.ReasonUserInterrupt)
		return nil
	}
	c.session.Terminate(session.ReasonFatalError)
	return err
}

func interrupted(ctx context.Context) bool {
	return ctx.Err() != nil
}
