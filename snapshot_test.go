package folio

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

type mockScreenshotRenderer struct {
	gotURL      string
	gotViewport Viewport
	gotFull     bool
	gotDeadline bool
	html        string
	err         error
	closed      bool
}

func (m *mockScreenshotRenderer) Screenshot(ctx context.Context, pageURL string, vp Viewport, fullPage bool) ([]byte, error) {
	m.gotURL = pageURL
	m.gotViewport = vp
	m.gotFull = fullPage
	_, m.gotDeadline = ctx.Deadline()
	if path, ok := strings.CutPrefix(pageURL, "file://"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		m.html = string(data)
	}
	if m.err != nil {
		return nil, m.err
	}
	return []byte("\x89PNG"), nil
}

func (m *mockScreenshotRenderer) Close() error {
	m.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// TestSnapshotter - Screenshot orchestration
// ---------------------------------------------------------------------------

func TestSnapshotter_Capture(t *testing.T) {
	t.Parallel()

	mock := &mockScreenshotRenderer{}
	s := NewSnapshotter(
		withScreenshotRenderer(mock),
		WithViewport(800, 0),
		WithFullPage(true),
		WithSnapshotTimeout(time.Second),
	)

	png, err := s.Capture(context.Background(), "http://127.0.0.1:1234/")
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if !strings.HasPrefix(string(png), "\x89PNG") {
		t.Errorf("unexpected output %q", png)
	}
	if mock.gotURL != "http://127.0.0.1:1234/" {
		t.Errorf("URL = %q", mock.gotURL)
	}
	want := Viewport{Width: 800, Height: DefaultViewportHeight}
	if mock.gotViewport != want {
		t.Errorf("Viewport = %+v, want %+v", mock.gotViewport, want)
	}
	if !mock.gotFull {
		t.Error("fullPage not passed through")
	}
	if !mock.gotDeadline {
		t.Error("capture context has no deadline")
	}

	if err := s.Close(); err != nil || !mock.closed {
		t.Errorf("Close: %v, closed=%v", err, mock.closed)
	}
}

func TestSnapshotter_CaptureHTML(t *testing.T) {
	t.Parallel()

	mock := &mockScreenshotRenderer{}
	s := NewSnapshotter(withScreenshotRenderer(mock))

	if _, err := s.CaptureHTML(context.Background(), "<h1>hi</h1>"); err != nil {
		t.Fatalf("CaptureHTML: %v", err)
	}
	if !strings.HasPrefix(mock.gotURL, "file://") {
		t.Errorf("URL = %q, want file URL", mock.gotURL)
	}
	if mock.html != "<h1>hi</h1>" {
		t.Errorf("rendered %q", mock.html)
	}
	// The temp file is removed after capture.
	if _, err := os.Stat(strings.TrimPrefix(mock.gotURL, "file://")); !os.IsNotExist(err) {
		t.Error("temp file not cleaned up")
	}
}

func TestSnapshotter_CaptureError(t *testing.T) {
	t.Parallel()

	mock := &mockScreenshotRenderer{err: ErrPageLoad}
	s := NewSnapshotter(withScreenshotRenderer(mock))

	if _, err := s.Capture(context.Background(), "http://x"); !errors.Is(err, ErrPageLoad) {
		t.Errorf("error = %v, want ErrPageLoad", err)
	}
}

func TestRodRenderer_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRodRenderer(time.Second)
	if _, err := r.Screenshot(ctx, "about:blank", Viewport{}, false); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close without browser: %v", err)
	}
}

func TestNewBrowserLauncher_Env(t *testing.T) {
	t.Setenv("ROD_BROWSER_BIN", "/usr/bin/chromium")

	l := NewBrowserLauncher()
	if !l.Has("no-sandbox") {
		t.Error("sandbox not disabled with ROD_BROWSER_BIN")
	}
}
