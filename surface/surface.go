// Package surface implements playback.Surface for the terminal and raster hosts.
package surface

import "errors"

// ErrClosed is returned by Draw when no overlay is open
var ErrClosed = errors.New("overlay closed")
