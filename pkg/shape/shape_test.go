package shape

import (
	"errors"
	"math"
	"testing"

	"github.com/orreryworks/orrery/pkg/geometry"
)

var testMeasurer = CharMeasurer{RuneWidth: 8, LineHeight: 16}

func TestFromKind(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"", KindRectangle},
		{"rectangle", KindRectangle},
		{"rounded", KindRoundedRectangle},
		{"ellipse", KindEllipse},
		{"document", KindDocument},
	}

	for _, tt := range tests {
		def, err := FromKind(tt.kind)
		if err != nil {
			t.Fatalf("FromKind(%q) error: %v", tt.kind, err)
		}
		if def.Name() != tt.want {
			t.Errorf("FromKind(%q).Name() = %q, want %q", tt.kind, def.Name(), tt.want)
		}
	}

	if _, err := FromKind("hexagon"); err == nil {
		t.Error("FromKind(hexagon) = nil error, want error")
	}
}

func TestWithTextSize_TextOnly(t *testing.T) {
	s := New(Rectangle{}, "abcd", geometry.UniformInsets(10), testMeasurer)

	got := s.Size()

	// 4 runes * 8 + 20 padding, 16 line + 20 padding.
	want := geometry.Size{Width: 52, Height: 36}
	if got != want {
		t.Errorf("Size() = %v, want %v", got, want)
	}
}

func TestWithTextExpandContentSizeTo(t *testing.T) {
	s := New(Rectangle{}, "ab", geometry.UniformInsets(5), testMeasurer)

	s.ExpandContentSizeTo(geometry.Size{Width: 100, Height: 40})
	s.ExpandContentSizeTo(geometry.Size{Width: 60, Height: 80})

	// Ratchets to the component-wise max: 100 x 80.
	if s.ContentSize() != (geometry.Size{Width: 100, Height: 80}) {
		t.Errorf("ContentSize() = %v, want {100 80}", s.ContentSize())
	}
	want := geometry.Size{Width: 110, Height: 90}
	if s.Size() != want {
		t.Errorf("Size() = %v, want %v", s.Size(), want)
	}
}

func TestDocumentContentInsets(t *testing.T) {
	_, err := Document{}.ContentInsets(geometry.Size{Width: 40, Height: 30}, geometry.UniformInsets(4))

	if !errors.Is(err, ErrNoContent) {
		t.Errorf("ContentInsets() error = %v, want ErrNoContent", err)
	}
}

func TestEllipseContentBoxStaysInsideCurve(t *testing.T) {
	padding := geometry.UniformInsets(10)
	content := geometry.Size{Width: 100, Height: 40}
	size := Ellipse{}.CalculateSize(content, padding)

	insets, err := Ellipse{}.ContentInsets(size, padding)
	if err != nil {
		t.Fatalf("ContentInsets: %v", err)
	}

	outer := geometry.Bounds{Max: geometry.Point{X: size.Width, Y: size.Height}}
	box := outer.Inset(insets)

	if math.Abs(box.Size().Width-content.Width) > 1e-9 || math.Abs(box.Size().Height-content.Height) > 1e-9 {
		t.Fatalf("content box size = %v, want %v", box.Size(), content)
	}

	// Every corner of the content box must satisfy the ellipse equation.
	cx, cy := size.Width/2, size.Height/2
	rx, ry := size.Width/2, size.Height/2
	for _, p := range []geometry.Point{
		{X: box.Min.X, Y: box.Min.Y},
		{X: box.Max.X, Y: box.Min.Y},
		{X: box.Min.X, Y: box.Max.Y},
		{X: box.Max.X, Y: box.Max.Y},
	} {
		nx := (p.X - cx) / rx
		ny := (p.Y - cy) / ry
		if nx*nx+ny*ny > 1+1e-9 {
			t.Errorf("corner %v lies outside the ellipse (%v)", p, nx*nx+ny*ny)
		}
	}
}

func TestEllipseCalculateSize(t *testing.T) {
	got := Ellipse{}.CalculateSize(geometry.Size{Width: 10, Height: 10}, geometry.Insets{})

	if math.Abs(got.Width-10*math.Sqrt2) > 1e-9 {
		t.Errorf("Width = %v, want %v", got.Width, 10*math.Sqrt2)
	}
}

func TestCharMeasurerMultiline(t *testing.T) {
	got := testMeasurer.Measure("abc\nabcdef\nx")

	want := geometry.Size{Width: 48, Height: 48}
	if got != want {
		t.Errorf("Measure() = %v, want %v", got, want)
	}

	if !testMeasurer.Measure("").IsZero() {
		t.Error("Measure(\"\") is not zero")
	}
}
