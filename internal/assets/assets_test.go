package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadStyle_Default(t *testing.T) {
	t.Parallel()

	content, err := LoadStyle(DefaultStyleName)
	if err != nil {
		t.Fatalf("LoadStyle() error = %v", err)
	}
	if content == "" {
		t.Error("LoadStyle() returned empty content")
	}
}

func TestLoadTemplateSet_Default(t *testing.T) {
	t.Parallel()

	ts, err := LoadTemplateSet(DefaultTemplateSetName)
	if err != nil {
		t.Fatalf("LoadTemplateSet() error = %v", err)
	}
	if ts.Index == "" || ts.Detail == "" || ts.Fragment == "" {
		t.Errorf("LoadTemplateSet() returned incomplete set: %+v", ts)
	}
}

func TestLoadTheme(t *testing.T) {
	t.Parallel()

	t.Run("defaults with nil loader", func(t *testing.T) {
		t.Parallel()

		theme, err := LoadTheme(nil, ThemeNames{})
		if err != nil {
			t.Fatalf("LoadTheme() error = %v", err)
		}
		if theme.CSS == "" || theme.Script == "" || theme.Templates == nil {
			t.Errorf("LoadTheme() returned incomplete theme")
		}
	})

	t.Run("unknown style", func(t *testing.T) {
		t.Parallel()

		_, err := LoadTheme(NewEmbeddedLoader(), ThemeNames{Style: "missing"})
		if !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("LoadTheme() error = %v, want ErrStyleNotFound", err)
		}
	})

	t.Run("custom style with embedded templates", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if err := os.MkdirAll(filepath.Join(dir, "styles"), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "styles", "night.css"), []byte("body{}"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		resolver, err := NewAssetResolver(dir)
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}

		theme, err := LoadTheme(resolver, ThemeNames{Style: "night"})
		if err != nil {
			t.Fatalf("LoadTheme() error = %v", err)
		}
		if theme.CSS != "body{}" {
			t.Errorf("CSS = %q, want custom style", theme.CSS)
		}
		if theme.Templates.Name != DefaultTemplateSetName {
			t.Errorf("Templates.Name = %q, want embedded default", theme.Templates.Name)
		}
	})
}
