// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package tray

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"io"
)

// GetIconIdle returns the binary data for the idle tray icon.
func GetIconIdle() []byte { return mustDecodeIcon(iconIdleBase64) }

// GetIconBusy returns the binary data for the recording/processing tray
// icon.
func GetIconBusy() []byte { return mustDecodeIcon(iconBusyBase64) }

// mustDecodeIcon decodes a base64-gzipped PNG icon, mirroring speak-to-ai's
// tray/icons.go asset format (cat icon.png | gzip -9 | base64).
func mustDecodeIcon(encoded string) []byte {
	compressed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		panic("tray: decode icon: " + err.Error())
	}

	gzipReader, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		panic("tray: ungzip icon: " + err.Error())
	}
	defer gzipReader.Close()

	var buf bytes.Buffer
	limited := io.LimitReader(gzipReader, 5*1024*1024)
	if _, err := io.Copy(&buf, limited); err != nil {
		panic("tray: decompress icon: " + err.Error())
	}
	return buf.Bytes()
}

// Base64-encoded gzipped 16x16 PNG icons.
// Generated with: cat icon.png | gzip -9 | base64

const iconIdleBase64 = `H4sIAAAAAAAC/+sM8HPn5ZLiYmBg4PX0cAkC0gIgzMEEJCdMzDADUiKeLo4hFbeSVygIGvRkSVw1qDFlYEiOzBD4ptO+FSjP4Onq57LOKaEJAJZ+pLJNAAAA`

const iconBusyBase64 = `H4sIAAAAAAAC/+sM8HPn5ZLiYmBg4PX0cAkC0gIgzMEEJCdMzDADUmKeLo4hFbeSLRYudBRKkrhqsCrxRxYDQ42xhMAvlcVPgSoYPF39XNY5JTQBAJPEIQVPAAAA`
