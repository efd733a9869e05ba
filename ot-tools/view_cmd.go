package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/thatisuday/commando"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

func runViewCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	tf := mustLoadTypeface(args, flags)
	if tf.sfnt == nil {
		fatalf("rule sets have no outlines, please provide a font file")
	}
	sh := newShaper(tf, flags)
	buf := newBuffer(sh, args, flags)
	if err := sh.Shape(buf); err != nil {
		fatalf("shape failed: %v", err)
	}
	if buf.Len() == 0 {
		fatalf("shaping produced no glyphs")
	}
	outPath := mustFlagString(flags["output"], "output")
	if outPath == "" {
		fatalf("output path is empty")
	}
	v := viewport{
		width:  mustFlagInt(flags["width"], "width"),
		height: mustFlagInt(flags["height"], "height"),
		ppem:   mustFlagInt(flags["ppem"], "ppem"),
		bboxes: mustFlagBool(flags["show-bboxes"], "show-bboxes"),
	}
	if v.ppem <= 0 {
		fatalf("--ppem must be > 0")
	}
	if v.width <= 0 || v.height <= 0 {
		fatalf("--width and --height must be > 0")
	}
	img, err := v.render(tf.sfnt.SFNT, buf)
	if err != nil {
		fatalf("render failed: %v", err)
	}
	if err := writePNG(img, outPath); err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("wrote %s (glyphs=%d)\n", outPath, len(buf.Items))
}

type viewport struct {
	width, height int
	ppem          int
	bboxes        bool
}

type glyphPath struct {
	segs   sfnt.Segments
	dx, dy float32
}

// render draws the glyphs of a shaped buffer in visual order, centered in
// the viewport. Positions are in font units and y points up.
func (v viewport) render(f *sfnt.Font, buf *otlayout.Buffer) (*image.RGBA, error) {
	upem := float32(f.UnitsPerEm())
	if upem <= 0 {
		return nil, errors.New("invalid units-per-em")
	}
	scale := float32(v.ppem) / upem
	items := visualOrder(buf)
	paths := make([]glyphPath, 0, len(items))
	var (
		penX, penY             float32
		minX, minY, maxX, maxY float32
		sb                     sfnt.Buffer
	)
	for _, item := range items {
		segs, err := f.LoadGlyph(&sb, sfnt.GlyphIndex(item.Glyph), fixed.I(v.ppem), nil)
		if err == nil && len(segs) > 0 {
			// segments are invalid once the buffer is re-used
			p := glyphPath{
				segs: append(sfnt.Segments(nil), segs...),
				dx:   penX + float32(item.Position.XPlacement)*scale,
				dy:   penY - float32(item.Position.YPlacement)*scale,
			}
			b := p.segs.Bounds()
			x0, y0 := float32(b.Min.X)/64+p.dx, float32(b.Min.Y)/64+p.dy
			x1, y1 := float32(b.Max.X)/64+p.dx, float32(b.Max.Y)/64+p.dy
			if len(paths) == 0 {
				minX, minY, maxX, maxY = x0, y0, x1, y1
			} else {
				minX, minY = min(minX, x0), min(minY, y0)
				maxX, maxY = max(maxX, x1), max(maxY, y1)
			}
			paths = append(paths, p)
		}
		penX += float32(item.Position.XAdvance) * scale
		penY -= float32(item.Position.YAdvance) * scale
	}
	if len(paths) == 0 {
		return nil, errors.New("no drawable glyph paths found")
	}
	shiftX := (float32(v.width)-(maxX-minX))/2 - minX
	shiftY := (float32(v.height)-(maxY-minY))/2 - minY

	img := image.NewRGBA(image.Rect(0, 0, v.width, v.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{255, 255, 255, 255}), image.Point{}, draw.Src)
	rast := vector.NewRasterizer(v.width, v.height)
	rast.DrawOp = draw.Over
	for _, p := range paths {
		tx, ty := shiftX+p.dx, shiftY+p.dy
		pt := func(a fixed.Point26_6) (float32, float32) {
			return tx + float32(a.X)/64, ty + float32(a.Y)/64
		}
		for _, seg := range p.segs {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				rast.MoveTo(pt(seg.Args[0]))
			case sfnt.SegmentOpLineTo:
				rast.LineTo(pt(seg.Args[0]))
			case sfnt.SegmentOpQuadTo:
				x0, y0 := pt(seg.Args[0])
				x1, y1 := pt(seg.Args[1])
				rast.QuadTo(x0, y0, x1, y1)
			case sfnt.SegmentOpCubeTo:
				x0, y0 := pt(seg.Args[0])
				x1, y1 := pt(seg.Args[1])
				x2, y2 := pt(seg.Args[2])
				rast.CubeTo(x0, y0, x1, y1, x2, y2)
			}
		}
	}
	rast.Draw(img, img.Bounds(), image.Black, image.Point{})
	if v.bboxes {
		red := color.RGBA{255, 0, 0, 255}
		for _, p := range paths {
			b := p.segs.Bounds()
			tx, ty := int(shiftX+p.dx), int(shiftY+p.dy)
			drawRectOutline(img, image.Rect(b.Min.X.Floor()+tx, b.Min.Y.Floor()+ty,
				b.Max.X.Ceil()+tx, b.Max.Y.Ceil()+ty), red)
		}
	}
	return img, nil
}

// visualOrder returns the items of buf left to right.
func visualOrder(buf *otlayout.Buffer) []*otlayout.BufferItem {
	items := make([]*otlayout.BufferItem, len(buf.Items))
	copy(items, buf.Items)
	if buf.IsRTL() {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
	return items
}

func drawRectOutline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Canon().Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}

func writePNG(img image.Image, outPath string) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("cannot encode png: %w", err)
	}
	return nil
}
