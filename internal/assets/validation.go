package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks a theme name (style, script or template set)
// before it is joined into a path. Names are bare words: no separators and
// no dots, so a name cannot climb out of the theme directory or pick its own
// extension.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case strings.ContainsAny(name, `/\.`):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
