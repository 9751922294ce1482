package assets

import (
	"errors"
	"fmt"
	"io/fs"
)

// TemplateSet holds the html/template sources of a theme.
type TemplateSet struct {
	Name     string // Identifier (name or directory path)
	Index    string // Grid page
	Detail   string // Standalone detail page
	Fragment string // Detail body shared by the panel and the detail page
}

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "default"

// DefaultStyleName is the name of the built-in CSS style.
const DefaultStyleName = "default"

// DefaultScriptName is the name of the built-in client script.
const DefaultScriptName = "site"

// Template file names inside a template set directory.
const (
	IndexTemplateFile    = "index.html"
	DetailTemplateFile   = "detail.html"
	FragmentTemplateFile = "fragment.html"
)

// readTemplateSet reads the three templates of a set through read, which
// takes a file name relative to the set directory.
func readTemplateSet(name string, read func(file string) ([]byte, error)) (*TemplateSet, error) {
	files := []string{IndexTemplateFile, DetailTemplateFile, FragmentTemplateFile}
	contents := make([]string, len(files))

	var missing []string
	for i, file := range files {
		data, err := read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				missing = append(missing, file)
				continue
			}
			return nil, fmt.Errorf("%w: reading %s: %v", ErrAssetRead, file, err)
		}
		contents[i] = string(data)
	}

	switch {
	case len(missing) == len(files):
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	case len(missing) > 0:
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, missing[0])
	}

	return &TemplateSet{
		Name:     name,
		Index:    contents[0],
		Detail:   contents[1],
		Fragment: contents[2],
	}, nil
}
