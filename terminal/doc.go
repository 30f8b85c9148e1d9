// @focus: #sys { term }
// Package terminal provides direct ANSI terminal control for the rain renderer.
//
// Features:
//   - True color (24-bit) output with 256-color fallback
//   - Raw stdin input parsing with escape sequence handling
//   - SIGWINCH resize notification
//   - Background color query (OSC 11)
//   - Clean terminal restoration on exit/panic
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
