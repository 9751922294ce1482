// Package assets provides the portfolio theme: stylesheets, page templates
// and the client script.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (default theme)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the site. It tries the custom
// FilesystemLoader first and falls back to EmbeddedLoader when an asset is
// not found, so a theme directory may override a single file.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css           # Site stylesheet
//	├── scripts/
//	│   └── {name}.js            # Client script (tiles, panel, lightbox)
//	└── templates/
//	    └── {name}/
//	        ├── index.html       # Grid page
//	        ├── detail.html      # Standalone detail page
//	        └── fragment.html    # Detail body loaded into the panel
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
