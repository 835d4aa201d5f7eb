// Package terminal provides the hosting terminal for the marquee console.
//
// Features:
//   - Raw mode via golang.org/x/term, restored on Fini and on crash
//   - Double-buffered output with cell-level diffing
//   - Raw stdin input parsing with escape sequence handling on a dedicated reader
//   - A tcell-backed implementation of the same Terminal interface
//
// The ANSI backend bypasses terminfo entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
