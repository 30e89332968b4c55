package meet

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/user/meetscribe/internal/selector"
)

// Options configures the browser launch.
type Options struct {
	Headless        bool
	ExecPath        string        // browser executable override
	NavigateTimeout time.Duration // hard bound on page load
}

const defaultNavigateTimeout = 45 * time.Second

// ChromeDriver drives a Chrome instance over the DevTools protocol. It is
// the production Driver and also the selector.Prober the candidate chains
// run against.
type ChromeDriver struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	navTimeout    time.Duration
	closeOnce     sync.Once
}

// NewChromeDriver launches the browser. The fake media-stream flags ensure
// the agent never has to answer a device-permission prompt and can never
// transmit a real microphone or camera signal.
//
// The browser's lifetime is owned by the driver and ends only in Close.
// Rooting it in a run context would let an interrupt kill the browser
// before the graceful-leave step of teardown can reach it; callers bound
// individual operations with their own ctx instead.
func NewChromeDriver(opts Options) (*ChromeDriver, error) {
	flags := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("use-fake-ui-for-media-stream", true),
		chromedp.Flag("use-fake-device-for-media-stream", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1280, 800),
	}
	if opts.Headless {
		flags = append(flags, chromedp.Headless)
	}
	if opts.ExecPath != "" {
		flags = append(flags, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), flags...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so launch failures surface here rather
	// than on the first action.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	navTimeout := opts.NavigateTimeout
	if navTimeout <= 0 {
		navTimeout = defaultNavigateTimeout
	}

	return &ChromeDriver{
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
		navTimeout:    navTimeout,
	}, nil
}

// opCtx derives a context for one browser operation: rooted in the
// browser's lifetime, bounded by timeout, and cancelled early if the
// caller's ctx ends first. The caller's ctx bounds the operation only;
// it never tears the browser down.
func (d *ChromeDriver) opCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	opCtx, cancel := context.WithTimeout(d.browserCtx, timeout)
	stop := context.AfterFunc(ctx, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}

func (d *ChromeDriver) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := d.opCtx(ctx, d.navTimeout)
	defer cancel()

	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// Probe implements selector.Prober: a candidate resolves when its element
// becomes visible within the attempt timeout.
func (d *ChromeDriver) Probe(ctx context.Context, c selector.Candidate, timeout time.Duration) bool {
	probeCtx, cancel := d.opCtx(ctx, timeout)
	defer cancel()

	return chromedp.Run(probeCtx, chromedp.WaitVisible(c.Query, queryOption(c))) == nil
}

func (d *ChromeDriver) ClickFirst(ctx context.Context, chain selector.Chain) (selector.Candidate, bool) {
	cand, ok := chain.First(ctx, d)
	if !ok {
		return selector.Candidate{}, false
	}

	actCtx, cancel := d.opCtx(ctx, chain.AttemptTimeout())
	defer cancel()
	if err := chromedp.Run(actCtx, chromedp.Click(cand.Query, queryOption(cand))); err != nil {
		slog.Debug("click failed after resolve", "action", chain.Action, "candidate", cand.Desc, "error", err)
		return cand, false
	}
	slog.Debug("clicked", "action", chain.Action, "candidate", cand.Desc)
	return cand, true
}

func (d *ChromeDriver) TypeFirst(ctx context.Context, chain selector.Chain, text string) (selector.Candidate, bool) {
	cand, ok := chain.First(ctx, d)
	if !ok {
		return selector.Candidate{}, false
	}

	actCtx, cancel := d.opCtx(ctx, chain.AttemptTimeout())
	defer cancel()
	err := chromedp.Run(actCtx,
		chromedp.Click(cand.Query, queryOption(cand)),
		chromedp.SendKeys(cand.Query, text, queryOption(cand)),
	)
	if err != nil {
		slog.Debug("type failed after resolve", "action", chain.Action, "candidate", cand.Desc, "error", err)
		return cand, false
	}
	return cand, true
}

func (d *ChromeDriver) PressEnter(ctx context.Context) error {
	actCtx, cancel := d.opCtx(ctx, selector.DefaultAttemptTimeout)
	defer cancel()

	if err := chromedp.Run(actCtx, chromedp.KeyEvent(kb.Enter)); err != nil {
		return fmt.Errorf("keyboard submit: %w", err)
	}
	return nil
}

// textsJS collects the trimmed, non-empty inner texts matched by a single
// query, CSS or XPath.
const textsJS = `(function(q, byXPath) {
	var nodes = [];
	if (byXPath) {
		var it = document.evaluate(q, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
		for (var i = 0; i < it.snapshotLength; i++) nodes.push(it.snapshotItem(i));
	} else {
		nodes = Array.prototype.slice.call(document.querySelectorAll(q));
	}
	return nodes.map(function(n) { return ((n.innerText || n.textContent) || '').trim(); })
		.filter(function(t) { return t.length > 0; });
})(%s, %t)`

func (d *ChromeDriver) Texts(ctx context.Context, chain selector.Chain) ([]string, bool) {
	for _, cand := range chain.Candidates {
		if ctx.Err() != nil {
			return nil, false
		}
		evalCtx, cancel := d.opCtx(ctx, chain.AttemptTimeout())
		var texts []string
		script := fmt.Sprintf(textsJS, strconv.Quote(cand.Query), cand.By == selector.ByXPath)
		err := chromedp.Run(evalCtx, chromedp.Evaluate(script, &texts))
		cancel()
		if err != nil {
			slog.Debug("text strategy errored", "action", chain.Action, "candidate", cand.Desc, "error", err)
			continue
		}
		if len(texts) > 0 {
			slog.Debug("text strategy matched", "action", chain.Action, "candidate", cand.Desc, "count", len(texts))
			return texts, true
		}
	}
	return nil, false
}

// InstallScript registers source to run in every new document before the
// page's own scripts execute.
func (d *ChromeDriver) InstallScript(source string) error {
	err := chromedp.Run(d.browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(source).Do(ctx)
		return err
	}))
	if err != nil {
		return fmt.Errorf("install page script: %w", err)
	}
	return nil
}

// ListenConsole invokes fn with the first string argument of every
// console.log the page emits. fn runs on the browser event goroutine as
// messages arrive; it must not block.
func (d *ChromeDriver) ListenConsole(fn func(line string)) {
	chromedp.ListenTarget(d.browserCtx, func(ev interface{}) {
		e, ok := ev.(*cdpruntime.EventConsoleAPICalled)
		if !ok || e.Type != cdpruntime.APITypeLog || len(e.Args) == 0 {
			return
		}
		var line string
		if err := json.Unmarshal(e.Args[0].Value, &line); err != nil {
			return
		}
		fn(line)
	})
}

// Close shuts the browser down. Idempotent: teardown may race a fatal
// startup path.
func (d *ChromeDriver) Close() error {
	d.closeOnce.Do(func() {
		d.browserCancel()
		d.allocCancel()
	})
	return nil
}

func queryOption(c selector.Candidate) chromedp.QueryOption {
	if c.By == selector.ByXPath {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}
