package meet

import (
	"context"
	"testing"
	"time"
)

// driverWithLifetime builds a ChromeDriver around a plain context so the
// operation-context plumbing can be exercised without a browser.
func driverWithLifetime(t *testing.T) (*ChromeDriver, context.CancelFunc) {
	t.Helper()
	browserCtx, browserCancel := context.WithCancel(context.Background())
	d := &ChromeDriver{
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   func() {},
		navTimeout:    defaultNavigateTimeout,
	}
	return d, browserCancel
}

func waitDone(t *testing.T, ctx context.Context, what string) {
	t.Helper()
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("%s never cancelled", what)
	}
}

func TestOpContext_BrowserOutlivesRunCancel(t *testing.T) {
	d, browserCancel := driverWithLifetime(t)
	defer browserCancel()

	runCtx, runCancel := context.WithCancel(context.Background())

	opCtx, cancel := d.opCtx(runCtx, time.Minute)
	defer cancel()

	// Cancelling the run (an interrupt, a stay deadline) must end the
	// in-flight operation but leave the browser alive for the teardown
	// protocol's graceful leave.
	runCancel()
	waitDone(t, opCtx, "operation context")

	select {
	case <-d.browserCtx.Done():
		t.Fatal("run cancellation must not end the browser's lifetime")
	default:
	}
}

func TestOpContext_LeaveUsableAfterRunCancel(t *testing.T) {
	d, browserCancel := driverWithLifetime(t)
	defer browserCancel()

	// A fresh context issued during teardown still yields a live
	// operation context even though the run's context is long dead.
	leaveCtx, leaveCancel := context.WithTimeout(context.Background(), time.Minute)
	defer leaveCancel()

	opCtx, cancel := d.opCtx(leaveCtx, time.Minute)
	defer cancel()

	select {
	case <-opCtx.Done():
		t.Fatal("teardown operation context dead on arrival")
	default:
	}
}

func TestOpContext_EndsWithBrowser(t *testing.T) {
	d, browserCancel := driverWithLifetime(t)

	opCtx, cancel := d.opCtx(context.Background(), time.Minute)
	defer cancel()

	browserCancel()
	waitDone(t, opCtx, "operation context after browser close")
}

func TestOpContext_Timeout(t *testing.T) {
	d, browserCancel := driverWithLifetime(t)
	defer browserCancel()

	opCtx, cancel := d.opCtx(context.Background(), 10*time.Millisecond)
	defer cancel()

	waitDone(t, opCtx, "operation context at its timeout")
}

func TestClose_EndsBrowserLifetime(t *testing.T) {
	d, _ := driverWithLifetime(t)

	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	waitDone(t, d.browserCtx, "browser context after Close")

	// Idempotent.
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
}
