// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package clipboard exposes the single write_text(str) -> error operation
// names as an external collaborator the controller consumes.
// Grounded on speak-to-ai's output package (output/clipboard.go's
// ClipboardOutputter wrapping a single clipboard library call), trimmed to
// just the write path since this package's output.mode only ever calls for
// ClipboardOnly or Disabled, never a read-back.
package clipboard

import "github.com/atotto/clipboard"

// Writer writes text to the OS clipboard.
type Writer interface {
	WriteText(text string) error
}

// SystemWriter backs Writer with github.com/atotto/clipboard.
type SystemWriter struct{}

// NewSystemWriter creates a SystemWriter.
func NewSystemWriter() *SystemWriter { return &SystemWriter{} }

// WriteText places text on the system clipboard.
func (SystemWriter) WriteText(text string) error {
	return clipboard.WriteAll(text)
}
