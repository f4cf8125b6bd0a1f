package fonted

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"
)

func mustSet(t *testing.T, g *Glyph, px ...[2]int) {
	t.Helper()
	for _, p := range px {
		if err := g.SetPixel(p[0], p[1], true); err != nil {
			t.Fatalf("SetPixel(%d, %d): %v", p[0], p[1], err)
		}
	}
}

func filled(n int) []bool {
	data := make([]bool, n)
	for i := range data {
		data[i] = true
	}
	return data
}

func TestNewGlyph_Shape(t *testing.T) {
	tests := []struct {
		name     string
		rows     int
		columns  int
		wantRows int
		wantCols int
	}{
		{"5x8", 8, 5, 8, 5},
		{"largest", MaxGlyphSide, MaxGlyphSide, MaxGlyphSide, MaxGlyphSide},
		{"negative", -1, 5, 0, 0},
		{"too tall", MaxGlyphSide + 1, 1, 0, 0},
		{"product overflows", math.MaxInt, math.MaxInt, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGlyph(tt.rows, tt.columns)
			if g.Rows() != tt.wantRows || g.Columns() != tt.wantCols {
				t.Fatalf("shape = %dx%d, want %dx%d", g.Rows(), g.Columns(), tt.wantRows, tt.wantCols)
			}
			if len(g.Data()) != tt.wantRows*tt.wantCols {
				t.Errorf("len(Data()) = %d", len(g.Data()))
			}
			if _, err := g.Pixel(5, 5); tt.wantRows == 0 && !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("Pixel() error = %v, want %v", err, ErrIndexOutOfRange)
			}
			if _, err := NewGlyphWithData(tt.rows, tt.columns, nil); tt.wantRows == 0 && !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("NewGlyphWithData() error = %v, want %v", err, ErrShapeMismatch)
			}
		})
	}
}

func TestGlyph_SetData(t *testing.T) {
	tests := []struct {
		name    string
		data    []bool
		wantErr error
	}{
		{"exact", filled(40), nil},
		{"short", filled(39), ErrShapeMismatch},
		{"long", filled(41), ErrShapeMismatch},
		{"nil", nil, ErrShapeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGlyph(8, 5)
			mustSet(t, g, [2]int{3, 3})
			before := g.Data()
			var calls int
			g.OnChange(func() { calls++ })

			err := g.SetData(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetData() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if !slices.Equal(g.Data(), before) {
					t.Error("SetData() changed pixels on failure")
				}
				if calls != 0 {
					t.Errorf("SetData() notified %d times on failure", calls)
				}
				return
			}
			if !slices.Equal(g.Data(), tt.data) {
				t.Errorf("Data() = %v, want %v", g.Data(), tt.data)
			}
			if calls != 1 {
				t.Errorf("calls = %d, want 1", calls)
			}
		})
	}
}

func TestGlyph_SetDataCopies(t *testing.T) {
	g := NewGlyph(8, 5)
	data := make([]bool, 40)
	if err := g.SetData(data); err != nil {
		t.Fatal(err)
	}
	data[0] = true
	if v, _ := g.Pixel(0, 0); v {
		t.Error("glyph shares the caller's buffer")
	}
	out := g.Data()
	out[1] = true
	if v, _ := g.Pixel(0, 1); v {
		t.Error("Data() exposes the internal buffer")
	}
}

func TestGlyph_SetPixel(t *testing.T) {
	tests := []struct {
		name     string
		row, col int
		wantErr  error
		wantIdx  int
	}{
		{"origin", 0, 0, nil, 0},
		{"row major", 2, 3, nil, 13},
		{"last", 7, 4, nil, 39},
		{"negative row", -1, 0, ErrIndexOutOfRange, 0},
		{"row too big", 8, 0, ErrIndexOutOfRange, 0},
		{"column too big", 0, 5, ErrIndexOutOfRange, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGlyph(8, 5)
			err := g.SetPixel(tt.row, tt.col, true)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetPixel() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			data := g.Data()
			for i, v := range data {
				if v != (i == tt.wantIdx) {
					t.Errorf("pixel %d = %v", i, v)
				}
			}
		})
	}
}

func TestGlyph_TogglePixel(t *testing.T) {
	g := NewGlyph(8, 5)
	v, err := g.TogglePixel(1, 1)
	if err != nil || !v {
		t.Fatalf("TogglePixel() = %v, %v; want true, nil", v, err)
	}
	v, _ = g.TogglePixel(1, 1)
	if v {
		t.Error("second TogglePixel() = true, want false")
	}
}

func TestGlyph_Clear(t *testing.T) {
	g, err := NewGlyphWithData(8, 5, filled(40))
	if err != nil {
		t.Fatal(err)
	}
	var calls int
	g.OnChange(func() { calls++ })
	g.Clear()
	if slices.Contains(g.Data(), true) {
		t.Error("Clear() left pixels set")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestGlyph_ExportHex(t *testing.T) {
	tests := []struct {
		name    string
		size    Size
		pixels  [][2]int
		want    string
		wantErr error
	}{
		{
			name:   "5x8 corners",
			size:   Size5x8,
			pixels: [][2]int{{0, 0}, {7, 4}},
			want:   "{0x01, 0x00, 0x00, 0x00, 0x80}",
		},
		{
			name: "5x8 blank",
			size: Size5x8,
			want: "{0x00, 0x00, 0x00, 0x00, 0x00}",
		},
		{
			name:   "5x8 full column",
			size:   Size5x8,
			pixels: [][2]int{{0, 2}, {1, 2}, {2, 2}, {3, 2}, {4, 2}, {5, 2}, {6, 2}, {7, 2}},
			want:   "{0x00, 0x00, 0xff, 0x00, 0x00}",
		},
		{
			name:   "9x16 bands",
			size:   Size9x16,
			pixels: [][2]int{{0, 0}, {8, 0}, {15, 8}, {3, 4}},
			want:   "{0x01, 0x00, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80}",
		},
		{
			name:    "unsupported",
			size:    Size{Rows: 7, Columns: 5},
			wantErr: ErrUnsupportedGlyphSize,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGlyph(tt.size.Rows, tt.size.Columns)
			mustSet(t, g, tt.pixels...)
			got, err := g.ExportHex()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ExportHex() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExportHex() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGlyph_ImportHex(t *testing.T) {
	tests := []struct {
		name    string
		size    Size
		initial bool
		text    string
		want    [][2]int // pixels expected to be set, if the glyph started blank
		check   func(t *testing.T, g *Glyph)
		wantErr error
	}{
		{
			name: "5x8 export format",
			size: Size5x8,
			text: "{0x01, 0x00, 0x00, 0x00, 0x80}",
			want: [][2]int{{0, 0}, {7, 4}},
		},
		{
			name: "comments and upper case",
			size: Size5x8,
			text: "/* A */ {0X01,0x00 ,junk 0x00,\n0x00, 0XfF} // tail 0x77",
			want: [][2]int{{0, 0}, {0, 4}, {1, 4}, {2, 4}, {3, 4}, {4, 4}, {5, 4}, {6, 4}, {7, 4}},
		},
		{
			name: "9x16 continuous stream",
			size: Size9x16,
			text: "0x01 0x00 0x00 0x00 0x08 0x00 0x00 0x00 0x00 0x01 0x00 0x00 0x00 0x00 0x00 0x00 0x00 0x80",
			want: [][2]int{{0, 0}, {3, 4}, {8, 0}, {15, 8}},
		},
		{
			name: "extra tokens ignored",
			size: Size5x8,
			text: "0x00 0x00 0x00 0x00 0x02 0xff 0xff",
			want: [][2]int{{1, 4}},
		},
		{
			name:    "partial import keeps the rest",
			size:    Size5x8,
			initial: true,
			text:    "0x01, 0x02",
			check: func(t *testing.T, g *Glyph) {
				for r := range 8 {
					for c := range 5 {
						want := c >= 2 || (c == 0 && r == 0) || (c == 1 && r == 1)
						if got, _ := g.Pixel(r, c); got != want {
							t.Errorf("pixel (%d, %d) = %v, want %v", r, c, got, want)
						}
					}
				}
			},
		},
		{
			name: "three hex digits only takes two",
			size: Size5x8,
			text: "0x123",
			want: [][2]int{{1, 0}, {4, 0}},
		},
		{
			name:    "unsupported",
			size:    Size{Rows: 8, Columns: 6},
			text:    "0x01",
			wantErr: ErrUnsupportedGlyphSize,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGlyph(tt.size.Rows, tt.size.Columns)
			if tt.initial {
				if err := g.SetData(filled(tt.size.Rows * tt.size.Columns)); err != nil {
					t.Fatal(err)
				}
			}
			var calls int
			g.OnChange(func() { calls++ })
			err := g.ImportHex(tt.text)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ImportHex() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if calls != 0 {
					t.Errorf("calls = %d, want 0", calls)
				}
				return
			}
			if calls != 1 {
				t.Errorf("calls = %d, want 1", calls)
			}
			if tt.check != nil {
				tt.check(t, g)
				return
			}
			want := NewGlyph(tt.size.Rows, tt.size.Columns)
			mustSet(t, want, tt.want...)
			if !slices.Equal(g.Data(), want.Data()) {
				t.Errorf("ImportHex() pixels = %v, want %v", g.Data(), want.Data())
			}
		})
	}
}

func TestGlyph_HexRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	for _, sz := range Sizes {
		for i := range 50 {
			data := make([]bool, sz.Rows*sz.Columns)
			for j := range data {
				data[j] = rnd.IntN(2) == 1
			}
			src, err := NewGlyphWithData(sz.Rows, sz.Columns, data)
			if err != nil {
				t.Fatal(err)
			}
			blob, err := src.ExportHex()
			if err != nil {
				t.Fatalf("%s #%d: ExportHex() error = %v", sz, i, err)
			}
			dst := NewGlyph(sz.Rows, sz.Columns)
			if err := dst.ImportHex(blob); err != nil {
				t.Fatalf("%s #%d: ImportHex() error = %v", sz, i, err)
			}
			if !slices.Equal(dst.Data(), data) {
				t.Errorf("%s #%d: round trip mismatch for %s", sz, i, blob)
			}
		}
	}
}

func TestGlyph_EndToEnd(t *testing.T) {
	g := NewGlyph(8, 5)
	mustSet(t, g, [2]int{0, 0}, [2]int{7, 4})
	blob, err := g.ExportHex()
	if err != nil {
		t.Fatal(err)
	}
	if want := "{0x01, 0x00, 0x00, 0x00, 0x80}"; blob != want {
		t.Fatalf("ExportHex() = %q, want %q", blob, want)
	}
	fresh := NewGlyph(8, 5)
	if err := fresh.ImportHex(blob); err != nil {
		t.Fatal(err)
	}
	var on []int
	for i, v := range fresh.Data() {
		if v {
			on = append(on, i)
		}
	}
	if !slices.Equal(on, []int{0, 39}) {
		t.Errorf("set pixels = %v, want [0 39]", on)
	}
}
