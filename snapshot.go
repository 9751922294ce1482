package folio

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-folio/internal/fileutil"
	"github.com/alnah/go-folio/internal/process"
)

// Snapshot defaults.
const (
	DefaultViewportWidth   = 1280
	DefaultViewportHeight  = 800
	DefaultSnapshotTimeout = 30 * time.Second
)

// Viewport is the browser window size used for a screenshot.
type Viewport struct {
	Width  int
	Height int
}

// screenshotRenderer abstracts the browser to enable testing without one.
type screenshotRenderer interface {
	Screenshot(ctx context.Context, pageURL string, vp Viewport, fullPage bool) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ screenshotRenderer = (*rodRenderer)(nil)

// Snapshotter captures PNG screenshots of rendered pages in headless
// Chrome. Create with NewSnapshotter and Close when done.
type Snapshotter struct {
	renderer screenshotRenderer
	viewport Viewport
	fullPage bool
	timeout  time.Duration
}

// SnapshotOption configures a Snapshotter.
type SnapshotOption func(*Snapshotter)

// WithViewport sets the window size. Non-positive values keep the default.
func WithViewport(width, height int) SnapshotOption {
	return func(s *Snapshotter) {
		if width > 0 {
			s.viewport.Width = width
		}
		if height > 0 {
			s.viewport.Height = height
		}
	}
}

// WithFullPage captures the whole scrollable page instead of the viewport.
func WithFullPage(full bool) SnapshotOption {
	return func(s *Snapshotter) {
		s.fullPage = full
	}
}

// WithSnapshotTimeout bounds each capture.
func WithSnapshotTimeout(d time.Duration) SnapshotOption {
	return func(s *Snapshotter) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// withScreenshotRenderer injects a renderer (tests).
func withScreenshotRenderer(r screenshotRenderer) SnapshotOption {
	return func(s *Snapshotter) {
		s.renderer = r
	}
}

// NewSnapshotter creates a Snapshotter. The browser is launched lazily on
// the first capture; Rod downloads Chromium if none is found.
func NewSnapshotter(opts ...SnapshotOption) *Snapshotter {
	s := &Snapshotter{
		viewport: Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight},
		timeout:  DefaultSnapshotTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = newRodRenderer(s.timeout)
	}
	return s
}

// Capture loads pageURL and returns a PNG screenshot.
func (s *Snapshotter) Capture(ctx context.Context, pageURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.renderer.Screenshot(ctx, pageURL, s.viewport, s.fullPage)
}

// CaptureHTML renders a self-contained HTML document and returns a PNG
// screenshot. Relative URLs in the document will not resolve.
func (s *Snapshotter) CaptureHTML(ctx context.Context, htmlContent string) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return s.Capture(ctx, "file://"+tmpPath)
}

// Close releases the browser.
func (s *Snapshotter) Close() error {
	return s.renderer.Close()
}

// rodRenderer implements screenshotRenderer using go-rod.
type rodRenderer struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// NewBrowserLauncher returns a launcher honoring ROD_BROWSER_BIN, with the
// sandbox disabled on CI and in containers.
func NewBrowserLauncher() *launcher.Launcher {
	l := launcher.New()
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	return l
}

// ensureBrowser lazily connects to the browser. Callers hold r.mu.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := NewBrowserLauncher()
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = browser
	return nil
}

func (r *rodRenderer) Screenshot(ctx context.Context, pageURL string, vp Viewport, fullPage bool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: 1.0,
	}).Call(page); err != nil {
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	png, err := page.Screenshot(fullPage, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	return png, nil
}

// Close releases browser resources and kills the browser process group.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}
