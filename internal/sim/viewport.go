package sim

// Viewport is the window rectangle, in pixels, the world is drawn into. The
// world spans x in [-1, 1] across the viewport width and y in
// [-1/aspect, 1/aspect] across its height, y up.
type Viewport struct {
	Left, Top     float64
	Width, Height float64
}

// Aspect is width over height.
func (v Viewport) Aspect() float64 {
	return v.Width / v.Height
}

// Extent returns the world y of the top edge. The bottom edge is -Extent.
func (v Viewport) Extent() float32 {
	return float32(v.Height / v.Width)
}

// ToWorld converts window pixel coordinates to world coordinates.
func (v Viewport) ToWorld(px, py float64) (wx, wy float32) {
	wx = float32(2*(px-v.Left)/v.Width - 1)
	wy = float32((2*(v.Top-py) + v.Height) / v.Width)
	return wx, wy
}

// ToWindow converts world coordinates to window pixel coordinates.
func (v Viewport) ToWindow(wx, wy float32) (px, py float64) {
	px = (float64(wx)+1)*v.Width/2 + v.Left
	py = v.Top + (v.Height-float64(wy)*v.Width)/2
	return px, py
}

// Contains reports whether a window pixel lies inside the viewport.
func (v Viewport) Contains(px, py float64) bool {
	return px >= v.Left && px < v.Left+v.Width && py >= v.Top && py < v.Top+v.Height
}
