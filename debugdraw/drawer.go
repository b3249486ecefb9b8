// Package debugdraw renders a compiled world as wireframes.
package debugdraw

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/svgworld/physics"
	"golang.org/x/image/colornames"
)

const (
	circleSegments = 24
	dotSize        = 4
)

// Camera maps world coordinates to screen pixels.
type Camera struct {
	Offset cp.Vector
	Scale  float64
}

// Fit returns the camera that shows a world of the given size centered in a
// screen of width by height pixels.
func Fit(size cp.Vector, width, height int) Camera {
	if size.X <= 0 || size.Y <= 0 || width <= 0 || height <= 0 {
		return Camera{Scale: 1}
	}
	scale := math.Min(float64(width)/size.X, float64(height)/size.Y)
	return Camera{
		Offset: cp.Vector{
			X: (float64(width) - size.X*scale) / 2,
			Y: (float64(height) - size.Y*scale) / 2,
		},
		Scale: scale,
	}
}

// ToScreen converts a world point.
func (c Camera) ToScreen(v cp.Vector) (float32, float32) {
	return float32(v.X*c.Scale + c.Offset.X), float32(v.Y*c.Scale + c.Offset.Y)
}

// ToWorld converts a screen point.
func (c Camera) ToWorld(x, y int) cp.Vector {
	scale := c.Scale
	if scale == 0 {
		scale = 1
	}
	return cp.Vector{X: (float64(x) - c.Offset.X) / scale, Y: (float64(y) - c.Offset.Y) / scale}
}

// Drawer is a cp.Drawer targeting an ebiten image.
type Drawer struct {
	screen *ebiten.Image
	cam    Camera
}

// NewDrawer returns a drawer for screen.
func NewDrawer(screen *ebiten.Image, cam Camera) *Drawer {
	return &Drawer{screen: screen, cam: cam}
}

// DrawWorld draws the visible shapes, joints and view boxes of data.
// Extra joints, such as a drag joint, are drawn after the registered ones.
func DrawWorld(screen *ebiten.Image, data *physics.WorldData, cam Camera, extra ...*physics.Joint) {
	if screen == nil || data == nil {
		return
	}
	d := NewDrawer(screen, cam)

	for _, id := range data.ViewBoxOrder {
		v := data.ViewBoxes[id]
		x, y := cam.ToScreen(cp.Vector{X: v.X, Y: v.Y})
		w, h := float32(v.Width*cam.Scale), float32(v.Height*cam.Scale)
		vector.StrokeRect(screen, x, y, w, h, 1, colornames.Slategray, false)
	}

	for _, b := range data.Bodies() {
		if b.Hidden {
			continue
		}
		for _, s := range b.Shapes {
			if s.Hidden || s.CP == nil {
				continue
			}
			cp.DrawShape(s.CP, d)
		}
	}

	joints := append(data.Joints(), extra...)
	for _, j := range joints {
		if j == nil {
			continue
		}
		for _, c := range j.Constraints {
			cp.DrawConstraint(c, d)
		}
	}
}

func (d *Drawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *Drawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *Drawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *Drawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *Drawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = dotSize
	}
	half := size / 2 / math.Max(d.cam.Scale, 1e-9)
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *Drawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_CONSTRAINTS
}

func (d *Drawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

// ShapeColor tells static shapes from moving ones.
func (d *Drawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape == nil || shape.Body() == nil {
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	}
	if shape.Body().GetType() == cp.BODY_STATIC {
		return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
	}
	return cp.FColor{R: 0.9, G: 0.4, B: 0.9, A: 1.0}
}

func (d *Drawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *Drawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *Drawer) Data() interface{} {
	return nil
}

func (d *Drawer) drawLine(a, b cp.Vector, c cp.FColor) {
	if d.screen == nil {
		return
	}
	x1, y1 := d.cam.ToScreen(a)
	x2, y2 := d.cam.ToScreen(b)
	vector.StrokeLine(d.screen, x1, y1, x2, y2, 1, toNRGBA(c), true)
}

func (d *Drawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *Drawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	points := make([]cp.Vector, 0, circleSegments)
	for i := 0; i < circleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(circleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
