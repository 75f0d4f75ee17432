package galaxy

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

// Binary layout, little-endian:
//
//	magic "GXPC" | version (1 byte) | 3 reserved bytes | count uint32
//	count*3 float32 positions | count*3 float32 colors
const (
	binaryMagic   = "GXPC"
	binaryVersion = 1
	headerSize    = 12

	// BinaryContentType is served for encoded clouds.
	BinaryContentType = "application/octet-stream"
)

func (pc *PointCloud) MarshalBinary() ([]byte, error) {
	if len(pc.Positions) != len(pc.Colors) {
		return nil, fmt.Errorf("point cloud has %d positions but %d colors", len(pc.Positions), len(pc.Colors))
	}
	if uint64(len(pc.Positions)) > math.MaxUint32 {
		return nil, fmt.Errorf("point cloud too large to encode: %d points", len(pc.Positions))
	}

	n := len(pc.Positions)
	buf := make([]byte, headerSize, headerSize+n*24)
	copy(buf, binaryMagic)
	buf[4] = binaryVersion
	binary.LittleEndian.PutUint32(buf[8:], uint32(n))

	for _, f := range pc.PositionBuffer() {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	for _, f := range pc.ColorBuffer() {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf, nil
}

func (pc *PointCloud) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize {
		return fmt.Errorf("point cloud payload too short: %d bytes", len(data))
	}
	if string(data[:4]) != binaryMagic {
		return fmt.Errorf("point cloud payload has bad magic %q", data[:4])
	}
	if data[4] != binaryVersion {
		return fmt.Errorf("unsupported point cloud version %d", data[4])
	}

	n := int(binary.LittleEndian.Uint32(data[8:]))
	if want := headerSize + n*24; len(data) != want {
		return fmt.Errorf("point cloud payload is %d bytes, want %d for %d points", len(data), want, n)
	}

	body := data[headerSize:]
	next := func() float64 {
		f := math.Float32frombits(binary.LittleEndian.Uint32(body))
		body = body[4:]
		return float64(f)
	}

	positions := make([]r3.Vec, n)
	for i := range positions {
		positions[i] = r3.Vec{X: next(), Y: next(), Z: next()}
	}
	colors := make([]colorful.Color, n)
	for i := range colors {
		colors[i] = colorful.Color{R: next(), G: next(), B: next()}
	}

	pc.Positions = positions
	pc.Colors = colors
	return nil
}
