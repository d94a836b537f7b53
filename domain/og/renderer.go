package og

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
)

//go:embed assets/image.png
var defaultIcon []byte

const (
	Width   = 1200
	Height  = 630
	IconBox = 260
)

var Background = color.RGBA{R: 0x13, G: 0x12, B: 0x14, A: 0xff}

// Renderer composes the social preview: the icon contained in a centered IconBox square
// on a solid background.
type Renderer struct {
	icon image.Image
	key  string
}

func NewRenderer(iconPNG []byte) (*Renderer, error) {
	icon, err := png.Decode(bytes.NewReader(iconPNG))
	if err != nil {
		return nil, fmt.Errorf("decode preview icon: %w", err)
	}
	if icon.Bounds().Empty() {
		return nil, fmt.Errorf("preview icon has no pixels")
	}

	sum := sha256.Sum256(iconPNG)

	return &Renderer{
		icon: icon,
		key:  fmt.Sprintf("og:image:v1:%dx%d:%s", Width, Height, hex.EncodeToString(sum[:6])),
	}, nil
}

// CacheKey identifies the rendered output. It changes whenever the icon does.
func (r *Renderer) CacheKey() string {
	return r.key
}

// NewDefaultRenderer uses the icon embedded in the binary.
func NewDefaultRenderer() (*Renderer, error) {
	return NewRenderer(defaultIcon)
}

func (r *Renderer) Render() ([]byte, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	target := containRect(r.icon.Bounds().Size(), IconBox, canvas.Bounds())
	draw.CatmullRom.Scale(canvas, target, r.icon, r.icon.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode preview image: %w", err)
	}

	return buf.Bytes(), nil
}

// containRect fits src into a box x box square centered in canvas, keeping the aspect ratio.
func containRect(src image.Point, box int, canvas image.Rectangle) image.Rectangle {
	w, h := box, box
	if src.X > src.Y {
		h = box * src.Y / src.X
	} else if src.Y > src.X {
		w = box * src.X / src.Y
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	center := image.Pt((canvas.Min.X+canvas.Max.X)/2, (canvas.Min.Y+canvas.Max.Y)/2)
	minPt := center.Sub(image.Pt(w/2, h/2))

	return image.Rectangle{Min: minPt, Max: minPt.Add(image.Pt(w, h))}
}
