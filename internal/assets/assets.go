package assets

import "fmt"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a CSS file by name using the default embedded loader.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplateSet loads a template set by name using the default embedded loader.
func LoadTemplateSet(name string) (*TemplateSet, error) {
	return defaultLoader.LoadTemplateSet(name)
}

// Theme is a fully loaded set of site assets.
type Theme struct {
	CSS       string
	Script    string
	Templates *TemplateSet
}

// ThemeNames selects the assets that make up a theme.
// Empty names select the built-in defaults.
type ThemeNames struct {
	Style     string
	Script    string
	Templates string
}

// LoadTheme loads every asset named by names through loader.
func LoadTheme(loader AssetLoader, names ThemeNames) (*Theme, error) {
	if loader == nil {
		loader = defaultLoader
	}
	if names.Style == "" {
		names.Style = DefaultStyleName
	}
	if names.Script == "" {
		names.Script = DefaultScriptName
	}
	if names.Templates == "" {
		names.Templates = DefaultTemplateSetName
	}

	css, err := loader.LoadStyle(names.Style)
	if err != nil {
		return nil, fmt.Errorf("loading style: %w", err)
	}
	script, err := loader.LoadScript(names.Script)
	if err != nil {
		return nil, fmt.Errorf("loading script: %w", err)
	}
	ts, err := loader.LoadTemplateSet(names.Templates)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	return &Theme{CSS: css, Script: script, Templates: ts}, nil
}
