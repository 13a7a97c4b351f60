package tts

import "errors"

// ErrIteratorClosed is returned by Next after Close.
var ErrIteratorClosed = errors.New("tts: segment iterator closed")
