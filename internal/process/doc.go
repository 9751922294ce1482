// Package process cleans up headless browser process trees left behind by
// snapshot captures.
package process
