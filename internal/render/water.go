// Package render holds the data this core hands to the rendering
// collaborator: the water uniform block and the pixel to NDC transform.
package render

import (
	"bytes"
	"encoding/binary"

	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
)

// WaterConfigSize is the byte size of the std140 water uniform block
const WaterConfigSize = 64

// WaterConfig mirrors the shader's water uniform block. Field order is the
// block's member order and must not change. Pad keeps the block at a multiple
// of 16 bytes.
type WaterConfig struct {
	ShallowColor  [4]float32 `json:"shallow_color"`
	DeepColor     [4]float32 `json:"deep_color"`
	WaveSpeed     float32    `json:"wave_speed"`
	WaveScale     float32    `json:"wave_scale"`
	WaveHeight    float32    `json:"wave_height"`
	FoamThreshold float32    `json:"foam_threshold"`
	DepthFade     float32    `json:"depth_fade"`
	Refraction    float32    `json:"refraction"`
	Time          float32    `json:"time"`
	Pad           float32    `json:"-"`
}

// DefaultWater returns the shipped water look
func DefaultWater() WaterConfig {
	return WaterConfig{
		ShallowColor:  [4]float32{0.2, 0.85, 0.95, 1.0},
		DeepColor:     [4]float32{0.02, 0.18, 0.35, 1.0},
		WaveSpeed:     0.8,
		WaveScale:     0.15,
		WaveHeight:    0.35,
		FoamThreshold: 0.72,
		DepthFade:     4.0,
		Refraction:    0.02,
	}
}

// Advance moves the animated time uniform forward
func (w *WaterConfig) Advance(dt float32) {
	w.Time += dt
}

// MarshalBinary encodes the block little-endian in declaration order, ready
// for upload. The pad is always written as zero.
func (w WaterConfig) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, WaterConfigSize))
	out := w
	out.Pad = 0
	if err := binary.Write(buf, binary.LittleEndian, &out); err != nil {
		return nil, errors.Wrap(err, "failed to encode water config")
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a block written by MarshalBinary
func (w *WaterConfig) UnmarshalBinary(data []byte) error {
	if len(data) != WaterConfigSize {
		return errors.InvalidArgumentf("water config must be %d bytes, got %d", WaterConfigSize, len(data))
	}
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, w); err != nil {
		return errors.Wrap(err, "failed to decode water config")
	}
	return nil
}
