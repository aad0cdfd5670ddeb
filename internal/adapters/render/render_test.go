package render

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/okian/eqbar/internal/domain/barplot"
	. "github.com/smartystreets/goconvey/convey"
)

func defaultPlot() barplot.Plot {
	p, err := barplot.Build(barplot.DefaultSamples(), barplot.DefaultOptions())
	if err != nil {
		panic(err)
	}
	return p
}

func hasColor(img image.Image, r, g, b uint8) bool {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			if uint8(cr>>8) == r && uint8(cg>>8) == g && uint8(cb>>8) == b {
				return true
			}
		}
	}
	return false
}

func TestEncodePNG(t *testing.T) {
	Convey("Given the default micro-test plot", t, func() {
		plot := defaultPlot()
		fig := barplot.DefaultFigure()

		Convey("When encoding to PNG", func() {
			var buf bytes.Buffer
			err := Encode(&buf, plot, fig, PNG)
			So(err, ShouldBeNil)

			Convey("Then the image is 600x450", func() {
				cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
				So(err, ShouldBeNil)
				So(cfg.Width, ShouldEqual, 600)
				So(cfg.Height, ShouldEqual, 450)
			})

			Convey("And only the non-zero bar is filled", func() {
				img, err := png.Decode(bytes.NewReader(buf.Bytes()))
				So(err, ShouldBeNil)
				So(hasColor(img, 0xf4, 0x43, 0x36), ShouldBeTrue)
				So(hasColor(img, 0x4c, 0xaf, 0x50), ShouldBeFalse)
				So(hasColor(img, 0x21, 0x96, 0xf3), ShouldBeFalse)
			})

			Convey("And encoding again yields identical bytes", func() {
				var again bytes.Buffer
				So(Encode(&again, plot, fig, PNG), ShouldBeNil)
				So(bytes.Equal(buf.Bytes(), again.Bytes()), ShouldBeTrue)
			})
		})

		Convey("When encoding to SVG", func() {
			var buf bytes.Buffer
			So(Encode(&buf, plot, fig, SVG), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "<svg")
			So(buf.String(), ShouldContainSubstring, "4.44e-02")
		})

		Convey("When the format is unknown", func() {
			err := Encode(&bytes.Buffer{}, plot, fig, Format("gif"))
			So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)
		})

		Convey("When the canvas is too small for the labels", func() {
			err := Encode(&bytes.Buffer{}, plot, barplot.Figure{WidthIn: 0.1, HeightIn: 0.1, DPI: 150}, PNG)
			So(errors.Is(err, ErrCanvasTooSmall), ShouldBeTrue)
		})

		Convey("When the y axis max is not finite", func() {
			bad := plot
			bad.YMax = math.Inf(1)
			err := Encode(&bytes.Buffer{}, bad, fig, PNG)
			So(errors.Is(err, ErrCanvasTooSmall), ShouldBeTrue)

			bad.YMax = math.NaN()
			err = Encode(&bytes.Buffer{}, bad, fig, PNG)
			So(errors.Is(err, ErrCanvasTooSmall), ShouldBeTrue)
		})

		Convey("When the figure is invalid", func() {
			err := Encode(&bytes.Buffer{}, plot, barplot.Figure{}, PNG)
			So(errors.Is(err, barplot.ErrInvalidFigure), ShouldBeTrue)
		})
	})
}

func TestParseFormat(t *testing.T) {
	Convey("Given format names", t, func() {
		f, err := ParseFormat("")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, PNG)

		f, err = ParseFormat(" SVG ")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, SVG)
		So(f.ContentType(), ShouldEqual, "image/svg+xml")
		So(PNG.ContentType(), ShouldEqual, "image/png")

		_, err = ParseFormat("jpeg")
		So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)
	})
}
