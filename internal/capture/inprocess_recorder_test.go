// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package capture

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/jfreymuth/pulse/proto"
	"github.com/stretchr/testify/require"
)

func TestSampleConverterKnownFormats(t *testing.T) {
	cases := []struct {
		format string
		want   proto.SampleFormat
	}{
		{"f32", proto.FormatFloat32LE},
		{"i16", proto.FormatInt16LE},
		{"u16", proto.FormatInt16LE},
	}
	for _, tc := range cases {
		got, conv, err := sampleConverter(tc.format)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
		require.NotNil(t, conv)
	}
}

func TestSampleConverterRejectsUnsupportedFormat(t *testing.T) {
	_, _, err := sampleConverter("s24le")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestConvertInt16LERoundTrips(t *testing.T) {
	raw := make([]byte, 4)
	binary.LittleEndian.PutUint16(raw[0:2], uint16(int16(1234)))
	binary.LittleEndian.PutUint16(raw[2:4], uint16(int16(-4321)))

	samples := convertInt16LE(raw)
	require.Equal(t, []int{1234, -4321}, samples)
}

func TestConvertFloat32LEScalesAndClamps(t *testing.T) {
	raw := make([]byte, 12)
	binary.LittleEndian.PutUint32(raw[0:4], math.Float32bits(0.5))
	binary.LittleEndian.PutUint32(raw[4:8], math.Float32bits(2.0)) // out of range, clamps to 1.0
	binary.LittleEndian.PutUint32(raw[8:12], math.Float32bits(-2.0))

	samples := convertFloat32LE(raw)
	require.Equal(t, []int{16383, 32767, -32767}, samples)
}
