package tips

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const paragraphsJS = `Array.from(document.querySelectorAll('p'))
	.map(function (p) { return (p.innerText || '').replace(/\s+/g, ' ').trim(); })
	.filter(function (t) { return t.length > 0; })`

// BrowserFetcher renders pages in headless Chrome before reading paragraphs,
// for blogs that build their content with JavaScript.
type BrowserFetcher struct {
	ExecPath string
	Timeout  time.Duration
}

func NewBrowserFetcher(execPath string) *BrowserFetcher {
	return &BrowserFetcher{ExecPath: execPath, Timeout: 45 * time.Second}
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	if f.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(f.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	runCtx, cancel := context.WithTimeout(browserCtx, f.Timeout)
	defer cancel()

	var paras []string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(paragraphsJS, &paras),
	)
	if err != nil {
		return "", fmt.Errorf("browser fetch %s: %w", url, err)
	}
	return strings.Join(paras, "\n\n"), nil
}
