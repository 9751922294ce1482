package folio

import (
	"embed"
	"io/fs"
)

//go:embed samples
var samplesFS embed.FS

// SampleFS returns the embedded sample site: posts/index.json, the sample
// post documents and the assets they reference.
func SampleFS() fs.FS {
	sub, err := fs.Sub(samplesFS, "samples")
	if err != nil {
		// Unreachable: the directory is embedded at compile time.
		panic(err)
	}
	return sub
}
