//go:build !unix

package terminal

import "errors"

var errUnsupported = errors.New("terminal: platform not supported")

// ErrNotTerminal is returned by Init when input or output is not attached to a terminal
var ErrNotTerminal = errors.New("not a terminal")

type unsupportedBackend struct{}

func newBackend() Backend { return unsupportedBackend{} }

func (unsupportedBackend) Init() error                          { return errUnsupported }
func (unsupportedBackend) Fini()                                {}
func (unsupportedBackend) Size() (int, int)                     { return 80, 24 }
func (unsupportedBackend) Write([]byte) error                   { return errUnsupported }
func (unsupportedBackend) Read(<-chan struct{}) ([]byte, error) { return nil, errUnsupported }
func (unsupportedBackend) Closed() bool                         { return true }
func (unsupportedBackend) SetResizeHandler(func(int, int))      {}

// DetectBackground is unavailable without a unix tty
func DetectBackground() (RGB, error) { return RGBBlack, errUnsupported }

func resetTerminalMode() {}
