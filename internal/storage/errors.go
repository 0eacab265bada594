package storage

import "errors"

// ErrClosed is returned by operations on a store that has been closed.
var ErrClosed = errors.New("storage is closed")
