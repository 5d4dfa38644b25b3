package layout

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"seatmap/model"
)

// Raster is a Surface backed by an RGBA image, used for PNG snapshots.
type Raster struct {
	img  *image.RGBA
	face font.Face
}

func NewRaster(width, height int) *Raster {
	return &Raster{
		img:  image.NewRGBA(image.Rect(0, 0, width, height)),
		face: basicfont.Face7x13,
	}
}

func (r *Raster) Image() *image.RGBA {
	return r.img
}

func (r *Raster) Size() (float64, float64) {
	if r.img == nil {
		return 0, 0
	}
	b := r.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (r *Raster) Clear(c color.RGBA) {
	if r.img == nil {
		return
	}
	pix := r.img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = 0xFF
	}
}

func (r *Raster) FillRect(rect Rect, c color.RGBA, opacity float64) {
	x0, y0, x1, y1 := r.bounds(rect)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r.img.SetRGBA(x, y, Blend(r.img.RGBAAt(x, y), c, opacity))
		}
	}
}

func (r *Raster) StrokeRect(rect Rect, c color.RGBA) {
	x0, y0, x1, y1 := r.bounds(rect)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	left := int(math.Round(rect.X))
	top := int(math.Round(rect.Y))
	right := int(math.Round(rect.X+rect.W)) - 1
	bottom := int(math.Round(rect.Y+rect.H)) - 1
	for x := x0; x < x1; x++ {
		r.set(x, top, c)
		r.set(x, bottom, c)
	}
	for y := y0; y < y1; y++ {
		r.set(left, y, c)
		r.set(right, y, c)
	}
}

func (r *Raster) FillCircle(center model.Point, radius float64, c color.RGBA) {
	if r.img == nil || radius <= 0 {
		return
	}
	x0, y0, x1, y1 := r.bounds(Rect{X: center.X - radius, Y: center.Y - radius, W: 2 * radius, H: 2 * radius})
	rr := radius * radius
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dx := float64(x) + 0.5 - center.X
			dy := float64(y) + 0.5 - center.Y
			if dx*dx+dy*dy <= rr {
				r.img.SetRGBA(x, y, c)
			}
		}
	}
}

func (r *Raster) Text(at model.Point, text string, c color.RGBA) {
	if r.img == nil || text == "" {
		return
	}
	ascent := r.face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(int(math.Round(at.X)), int(math.Round(at.Y))+ascent),
	}
	d.DrawString(text)
}

// EncodePNG writes the current frame.
func (r *Raster) EncodePNG(w io.Writer) error {
	if r.img == nil {
		return ErrRendererClosed
	}
	return png.Encode(w, r.img)
}

// Close drops the backing image.
func (r *Raster) Close() error {
	r.img = nil
	return nil
}

func (r *Raster) set(x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(r.img.Bounds()) {
		r.img.SetRGBA(x, y, c)
	}
}

// bounds clips rect to the image and returns pixel bounds [x0,x1)x[y0,y1).
func (r *Raster) bounds(rect Rect) (x0, y0, x1, y1 int) {
	if r.img == nil {
		return 0, 0, 0, 0
	}
	b := r.img.Bounds()
	x0 = max(b.Min.X, int(math.Round(rect.X)))
	y0 = max(b.Min.Y, int(math.Round(rect.Y)))
	x1 = min(b.Max.X, int(math.Round(rect.X+rect.W)))
	y1 = min(b.Max.Y, int(math.Round(rect.Y+rect.H)))
	return x0, y0, x1, y1
}
