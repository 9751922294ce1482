package assets

// AssetLoader defines the contract for loading theme assets.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadScript loads a client script by name (without .js extension).
	// Returns ErrScriptNotFound if the script doesn't exist.
	LoadScript(name string) (string, error)

	// LoadTemplateSet loads the page templates of a named set.
	// Returns ErrTemplateSetNotFound if no template of the set exists and
	// ErrIncompleteTemplateSet if only some do.
	LoadTemplateSet(name string) (*TemplateSet, error)
}
