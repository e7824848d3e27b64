package casebook

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// stripElementsJS removes the given selectors from the page. Navigation
// chrome overlaps form content once the viewport is expanded to the full
// page height.
const stripElementsJS = `(selectors) => {
	selectors.forEach(s => document.querySelector(s)?.remove());
}`

// annotateSelectsJS appends each dropdown's option texts as an inline span,
// so the available values are legible in a static screenshot. The "..."
// placeholder option is dropped.
const annotateSelectsJS = `() => {
	document.querySelectorAll('select').forEach(select => {
		const options = Array.from(select.options)
			.map(opt => opt.text.trim())
			.filter(t => t !== '...');
		const span = document.createElement('span');
		span.style.cssText = 'color: red; font-size: 12px; margin-left: 10px;';
		span.textContent = 'Options: ' + options.join(' | ');
		select.parentNode.insertBefore(span, select.nextSibling);
	});
}`

// hideOverflowJS suppresses the document scrollbar so it does not appear as
// a gray stripe along the captured page edge.
const hideOverflowJS = `() => {
	document.documentElement.style.overflow = 'hidden';
}`

// Capture navigates to the entry's URL, prepares the page, and returns a
// full-page PNG screenshot. All failures wrap ErrCapture; the caller skips
// the entry and continues.
func (r *rodSession) Capture(ctx context.Context, entry Entry) ([]byte, error) {
	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page := r.page.Context(ctx)

	if err := page.Timeout(r.cfg.timeout).Navigate(entry.URL); err != nil {
		return nil, fmt.Errorf("%w: navigating to %q: %v", ErrCapture, entry.URL, err)
	}
	if err := page.Timeout(r.cfg.timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v: %v", ErrCapture, ErrPageLoad, err)
	}

	// Let late scripts finish rendering form content.
	if r.cfg.settleDelay > 0 {
		time.Sleep(r.cfg.settleDelay)
	}

	if err := r.preparePage(page); err != nil {
		return nil, fmt.Errorf("%w: preparing %q: %v", ErrCapture, entry.Label, err)
	}

	png, err := page.Timeout(r.cfg.timeout).Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: screenshot of %q: %v", ErrCapture, entry.Label, err)
	}
	return png, nil
}

// preparePage strips navigation chrome, annotates dropdowns, and hides the
// scrollbar before capture.
func (r *rodSession) preparePage(page *rod.Page) error {
	settings := r.cfg.settings

	if len(settings.StripSelectors) > 0 {
		if _, err := page.Eval(stripElementsJS, settings.StripSelectors); err != nil {
			return err
		}
	}

	if !settings.SkipSelectAnnotation {
		if _, err := page.Eval(annotateSelectsJS); err != nil {
			return err
		}
	}

	if _, err := page.Eval(hideOverflowJS); err != nil {
		return err
	}
	return nil
}
