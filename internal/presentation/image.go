package presentation

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	apperrors "postcodelookup/internal/errors"
)

// tableSelector matches the table element written by RenderHTML.
const tableSelector = "#wide-table"

// ImageOptions controls the headless browser used by RenderPNG.
type ImageOptions struct {
	Timeout time.Duration
	// ExtraFlags are passed to Chrome, e.g. no-sandbox inside containers.
	ExtraFlags map[string]interface{}
}

// RenderPNG loads an HTML file written by RenderHTML in headless Chrome and
// returns a PNG screenshot of the table.
func RenderPNG(ctx context.Context, htmlPath string, opts ImageOptions, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return nil, apperrors.NewRenderError("failed to resolve HTML path", err)
	}
	target := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("headless", true))
	for name, value := range opts.ExtraFlags {
		allocOpts = append(allocOpts, chromedp.Flag(name, value))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if opts.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		browserCtx, cancelTimeout = context.WithTimeout(browserCtx, opts.Timeout)
		defer cancelTimeout()
	}

	var png []byte
	err = chromedp.Run(browserCtx,
		timedAction(ctx, logger, "Navigate", chromedp.Navigate(target)),
		chromedp.WaitVisible(tableSelector, chromedp.ByQuery),
		timedAction(ctx, logger, "Screenshot", chromedp.Screenshot(tableSelector, &png, chromedp.NodeVisible, chromedp.ByQuery)),
	)
	if err != nil {
		return nil, apperrors.NewRenderError(fmt.Sprintf("failed to screenshot %s", htmlPath), err).
			WithContext("file", htmlPath)
	}
	return png, nil
}

func timedAction(ctx context.Context, logger *slog.Logger, name string, act chromedp.Action) chromedp.Action {
	return chromedp.ActionFunc(func(c context.Context) error {
		start := time.Now()
		err := act.Do(c)
		logger.DebugContext(ctx, "Browser action",
			slog.String("action", name),
			slog.Duration("duration", time.Since(start)),
			slog.Bool("ok", err == nil))
		return err
	})
}
