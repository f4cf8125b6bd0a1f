package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/rusq/fonted"
	"github.com/rusq/fonted/internal/editor"
	"github.com/rusq/fonted/internal/header"
	"github.com/rusq/fonted/internal/raster"
	"github.com/rusq/fonted/internal/render"
)

// env is what a command works with.
type env struct {
	sess   *editor.Session
	stdin  io.Reader
	stdout io.Writer
	disp   [2]rune
}

type command struct {
	usage   string
	minArgs int
	maxArgs int
	fn      func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"show":         {"<char> [size]  print the glyphs of a character", 1, 2, cmdShow},
	"set":          {"<char> <size> <row> <col>  turn a pixel on", 4, 4, cmdPixel(pixelSet)},
	"unset":        {"<char> <size> <row> <col>  turn a pixel off", 4, 4, cmdPixel(pixelUnset)},
	"toggle":       {"<char> <size> <row> <col>  invert a pixel", 4, 4, cmdPixel(pixelToggle)},
	"clear":        {"[char]  blank one character, or the whole font", 0, 1, cmdClear},
	"export":       {"[size]  print the hex blobs of all characters (default 5x8)", 0, 1, cmdExport},
	"export-glyph": {"<char> <size>  print the hex blob of one glyph", 2, 2, cmdExportGlyph},
	"import":       {"[file|-]  read hex blobs, // comments allowed", 0, 1, cmdImport},
	"header":       {"<size> [name]  print the font as a C array", 1, 2, cmdHeader},
	"png":          {"<char> <size> <out.png> [scale]  write a glyph preview image", 3, 4, cmdPNG},
	"seed":         {"basic|<font.bdf> [size]  draw glyphs from a bitmap font", 1, 2, cmdSeed},
	"dump":         {"print the stored font blob", 0, 0, cmdDump},
	"load":         {"[file|-]  replace the font from a blob made by dump", 0, 1, cmdLoad},
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// parseChar accepts a single character or a numeric code (0x41, 65).
func parseChar(s string) (rune, error) {
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil
	}
	code, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid character %q", s)
	}
	return rune(code), nil
}

func lookup(cc *fonted.Collection, s string) (*fonted.Character, error) {
	r, err := parseChar(s)
	if err != nil {
		return nil, err
	}
	return cc.LookupRune(r)
}

// readInput reads the named file, or stdin for "" and "-".
func readInput(name string, stdin io.Reader) (string, error) {
	var r io.Reader = stdin
	if name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return "", fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, 16<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func optArg(args []string, i int, def string) string {
	if i < len(args) {
		return args[i]
	}
	return def
}

func cmdShow(_ context.Context, e *env, args []string) error {
	sizes := fonted.Sizes
	if len(args) > 1 {
		s, err := fonted.ParseSize(args[1])
		if err != nil {
			return err
		}
		sizes = []fonted.Size{s}
	}
	return e.sess.Do(func(cc *fonted.Collection) error {
		c, err := lookup(cc, args[0])
		if err != nil {
			return err
		}
		return render.Labelled(e.stdout, c, e.disp, sizes...)
	})
}

type pixelOp int

const (
	pixelSet pixelOp = iota
	pixelUnset
	pixelToggle
)

func cmdPixel(op pixelOp) func(context.Context, *env, []string) error {
	return func(_ context.Context, e *env, args []string) error {
		size, err := fonted.ParseSize(args[1])
		if err != nil {
			return err
		}
		row, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid row %q", args[2])
		}
		col, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid column %q", args[3])
		}
		return e.sess.Do(func(cc *fonted.Collection) error {
			c, err := lookup(cc, args[0])
			if err != nil {
				return err
			}
			g := c.GlyphOf(size)
			switch op {
			case pixelSet:
				err = g.SetPixel(row, col, true)
			case pixelUnset:
				err = g.SetPixel(row, col, false)
			case pixelToggle:
				_, err = g.TogglePixel(row, col)
			}
			if err != nil {
				return err
			}
			return render.Text(e.stdout, g, e.disp)
		})
	}
}

func cmdClear(_ context.Context, e *env, args []string) error {
	return e.sess.Do(func(cc *fonted.Collection) error {
		if len(args) == 0 {
			cc.Clear()
			return nil
		}
		c, err := lookup(cc, args[0])
		if err != nil {
			return err
		}
		c.Clear()
		return nil
	})
}

func cmdExport(_ context.Context, e *env, args []string) error {
	size, err := fonted.ParseSize(optArg(args, 0, fonted.Size5x8.Name))
	if err != nil {
		return err
	}
	return e.sess.Do(func(cc *fonted.Collection) error {
		blob, err := cc.ExportHex(size)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(e.stdout, blob)
		return err
	})
}

func cmdExportGlyph(_ context.Context, e *env, args []string) error {
	size, err := fonted.ParseSize(args[1])
	if err != nil {
		return err
	}
	return e.sess.Do(func(cc *fonted.Collection) error {
		c, err := lookup(cc, args[0])
		if err != nil {
			return err
		}
		blob, err := c.GlyphOf(size).ExportHex()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(e.stdout, blob)
		return err
	})
}

func cmdImport(_ context.Context, e *env, args []string) error {
	text, err := readInput(optArg(args, 0, "-"), e.stdin)
	if err != nil {
		return err
	}
	return e.sess.ImportHex(text)
}

func cmdHeader(_ context.Context, e *env, args []string) error {
	size, err := fonted.ParseSize(args[0])
	if err != nil {
		return err
	}
	name := optArg(args, 1, header.DefaultName(size))
	return e.sess.Do(func(cc *fonted.Collection) error {
		return header.Write(e.stdout, cc, size, name)
	})
}

func cmdPNG(_ context.Context, e *env, args []string) error {
	size, err := fonted.ParseSize(args[1])
	if err != nil {
		return err
	}
	scale, err := strconv.Atoi(optArg(args, 3, "16"))
	if err != nil {
		return fmt.Errorf("invalid scale %q", args[3])
	}
	// the file is only created once the image is ready.
	var buf bytes.Buffer
	err = e.sess.Do(func(cc *fonted.Collection) error {
		c, err := lookup(cc, args[0])
		if err != nil {
			return err
		}
		return render.PNG(&buf, c.GlyphOf(size), scale)
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[2], buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func cmdSeed(_ context.Context, e *env, args []string) error {
	face := raster.BasicFace()
	if args[0] != "basic" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read font: %w", err)
		}
		if face, err = raster.ParseBDF(data); err != nil {
			return err
		}
	}
	sizes := fonted.Sizes
	if len(args) > 1 {
		s, err := fonted.ParseSize(args[1])
		if err != nil {
			return err
		}
		sizes = []fonted.Size{s}
	}
	return e.sess.Do(func(cc *fonted.Collection) error {
		for _, s := range sizes {
			n, err := raster.Seed(cc, face, s)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "%s: %d glyphs drawn\n", s, n)
		}
		return nil
	})
}

func cmdDump(_ context.Context, e *env, _ []string) error {
	return e.sess.Do(func(cc *fonted.Collection) error {
		blob, err := cc.Serialize()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(e.stdout, blob)
		return err
	})
}

func cmdLoad(_ context.Context, e *env, args []string) error {
	blob, err := readInput(optArg(args, 0, "-"), e.stdin)
	if err != nil {
		return err
	}
	return e.sess.Replace(blob)
}
