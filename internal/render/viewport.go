package render

// Viewport is the drawable surface size in pixels
type Viewport struct {
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

// ToNDC maps a pixel position to normalized device coordinates, Y up.
//
// Each step is rounded to float32 explicitly so the result does not depend
// on whether the compiler fuses the multiply and subtract.
func (v Viewport) ToNDC(x, y float32) (float32, float32) {
	nx := float32(x/v.Width) * 2
	ny := float32(y/v.Height) * 2
	return float32(nx - 1), -float32(ny-1)
}
