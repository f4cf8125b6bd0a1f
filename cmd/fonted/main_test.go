package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rusq/fonted/internal/config"
)

func testConfig(t *testing.T, backend string) config.Config {
	t.Helper()
	return config.Config{
		Store:    backend,
		Path:     filepath.Join(t.TempDir(), "font."+backend),
		Key:      "working-font",
		Debounce: time.Hour,
	}
}

func runCmd(t *testing.T, cfg config.Config, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	if err := run(context.Background(), cfg, args, strings.NewReader(stdin), &out); err != nil {
		t.Fatalf("run(%v) error = %v", args, err)
	}
	return out.String()
}

func TestRun_EditAndExport(t *testing.T) {
	for _, backend := range []string{"bolt", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)
			runCmd(t, cfg, "", "set", "A", "5x8", "0", "0")
			runCmd(t, cfg, "", "set", "0x41", "5x8", "7", "4")
			runCmd(t, cfg, "", "toggle", "65", "5x8", "3", "3")
			runCmd(t, cfg, "", "unset", "A", "5x8", "3", "3")

			got := runCmd(t, cfg, "", "export-glyph", "A", "5x8")
			if want := "{0x01, 0x00, 0x00, 0x00, 0x80}\n"; got != want {
				t.Errorf("export-glyph = %q, want %q", got, want)
			}
			all := runCmd(t, cfg, "", "export", "9x16")
			if n := strings.Count(all, "{"); n != 128 {
				t.Errorf("export has %d blobs, want 128", n)
			}
		})
	}
}

func TestRun_ImportAndShow(t *testing.T) {
	cfg := testConfig(t, "bolt")
	in := "// first two characters\n{0x01, 0x00, 0x00, 0x00, 0x00}, // NUL\n{0x00, 0x00, 0x00, 0x00, 0x80}, // SOH\n"
	runCmd(t, cfg, in, "import", "-")

	got := runCmd(t, cfg, "", "show", "0x01", "5x8")
	want := "0x01 SOH\n" +
		".....\n.....\n.....\n.....\n.....\n.....\n.....\n....#\n"
	if got != want {
		t.Errorf("show =\n%s\nwant\n%s", got, want)
	}
}

func TestRun_DumpLoad(t *testing.T) {
	src := testConfig(t, "bolt")
	runCmd(t, src, "", "set", "z", "9x16", "15", "8")
	blob := runCmd(t, src, "", "dump")

	dst := testConfig(t, "sqlite")
	runCmd(t, dst, blob, "load")
	if got := runCmd(t, dst, "", "export-glyph", "z", "9x16"); !strings.HasSuffix(got, "0x80}\n") {
		t.Errorf("export-glyph after load = %q", got)
	}
	runCmd(t, dst, "", "clear")
	if got := runCmd(t, dst, "", "export-glyph", "z", "9x16"); strings.Contains(got, "0x80") {
		t.Errorf("export-glyph after clear = %q", got)
	}
}

func TestRun_HeaderSeedPNG(t *testing.T) {
	cfg := testConfig(t, "bolt")
	out := runCmd(t, cfg, "", "seed", "basic", "9x16")
	if out != "9x16: 95 glyphs drawn\n" {
		t.Errorf("seed = %q", out)
	}
	h := runCmd(t, cfg, "", "header", "9x16", "myfont")
	if !strings.Contains(h, "const unsigned char myfont[128][18] = {") {
		t.Errorf("header missing declaration:\n%s", h)
	}

	pngPath := filepath.Join(t.TempDir(), "a.png")
	runCmd(t, cfg, "", "png", "A", "9x16", pngPath, "2")
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 18 || b.Dy() != 32 {
		t.Errorf("png bounds = %v", b)
	}
}

func TestRun_PNGUnknownCharacter(t *testing.T) {
	cfg := testConfig(t, "bolt")
	pngPath := filepath.Join(t.TempDir(), "missing.png")
	err := run(context.Background(), cfg, []string{"png", "é", "5x8", pngPath}, strings.NewReader(""), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("run() error = %v, want not found", err)
	}
	if _, err := os.Stat(pngPath); !os.IsNotExist(err) {
		t.Errorf("output file exists after failed png: %v", err)
	}
}

func TestRun_Errors(t *testing.T) {
	cfg := testConfig(t, "bolt")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown command", []string{"frobnicate"}, "unknown command"},
		{"too few args", []string{"set", "A"}, "usage: set"},
		{"bad size", []string{"show", "A", "6x6"}, "unsupported glyph size"},
		{"out of range", []string{"set", "A", "5x8", "8", "0"}, "index out of range"},
		{"not in font", []string{"show", "é"}, "not found"},
		{"bad import", []string{"import"}, "unsupported glyph size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), cfg, tt.args, strings.NewReader("{0x01}"), &bytes.Buffer{})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("run() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func Test_parseChar(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"A", 'A', false},
		{"0", '0', false},
		{"0x41", 'A', false},
		{"65", 'A', false},
		{"é", 'é', false},
		{"AB", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseChar(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseChar() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseChar() = %q, want %q", got, tt.want)
			}
		})
	}
}
