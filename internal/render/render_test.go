package render_test

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
	"github.com/KirkDiggler/rpg-gameplay/internal/render"
)

type RenderTestSuite struct {
	suite.Suite
}

func TestRenderSuite(t *testing.T) {
	suite.Run(t, new(RenderTestSuite))
}

func (s *RenderTestSuite) TestToNDC() {
	vp := render.Viewport{Width: 800, Height: 600}

	x, y := vp.ToNDC(400, 300)
	s.Equal(float32(0), x)
	s.Equal(float32(0), y)

	x, y = vp.ToNDC(0, 0)
	s.Equal(float32(-1), x)
	s.Equal(float32(1), y)

	x, y = vp.ToNDC(800, 600)
	s.Equal(float32(1), x)
	s.Equal(float32(-1), y)
}

func (s *RenderTestSuite) TestToNDCIsReproducible() {
	vp := render.Viewport{Width: 1366, Height: 768}
	for px := float32(0); px < 1366; px += 37.3 {
		ax, ay := vp.ToNDC(px, px/2)
		bx, by := vp.ToNDC(px, px/2)
		s.Equal(math.Float32bits(ax), math.Float32bits(bx))
		s.Equal(math.Float32bits(ay), math.Float32bits(by))
	}
}

func (s *RenderTestSuite) TestWaterLayout() {
	s.Equal(uintptr(render.WaterConfigSize), unsafe.Sizeof(render.WaterConfig{}))
	s.Equal(0, render.WaterConfigSize%16)

	var w render.WaterConfig
	s.Equal(uintptr(32), unsafe.Offsetof(w.WaveSpeed))
	s.Equal(uintptr(56), unsafe.Offsetof(w.Time))
	s.Equal(uintptr(60), unsafe.Offsetof(w.Pad))
}

func (s *RenderTestSuite) TestWaterBinaryRoundTrip() {
	w := render.DefaultWater()
	w.Advance(1.25)

	raw, err := w.MarshalBinary()
	s.Require().NoError(err)
	s.Len(raw, render.WaterConfigSize)

	s.Equal(math.Float32bits(0.2), binary.LittleEndian.Uint32(raw[0:4]))
	s.Equal(math.Float32bits(0.85), binary.LittleEndian.Uint32(raw[4:8]))
	s.Equal(math.Float32bits(1.25), binary.LittleEndian.Uint32(raw[56:60]))
	s.Equal(uint32(0), binary.LittleEndian.Uint32(raw[60:64]))

	var decoded render.WaterConfig
	s.Require().NoError(decoded.UnmarshalBinary(raw))
	s.Equal(w, decoded)
}

func (s *RenderTestSuite) TestWaterUnmarshalRejectsShortBuffer() {
	var w render.WaterConfig
	err := w.UnmarshalBinary(make([]byte, 48))
	s.True(errors.IsInvalidArgument(err))
}

func (s *RenderTestSuite) TestWaterDefaultsRoundTripJSON() {
	w := render.DefaultWater()

	raw, err := json.Marshal(w)
	s.Require().NoError(err)
	s.Contains(string(raw), `"shallow_color":[0.2,0.85,0.95,1]`)

	var decoded render.WaterConfig
	s.Require().NoError(json.Unmarshal(raw, &decoded))
	s.Equal(w, decoded)
	s.Equal([4]float32{0.2, 0.85, 0.95, 1.0}, decoded.ShallowColor)
}
