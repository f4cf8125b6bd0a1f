// Package header exports a glyph collection as a C array for firmware.
package header

import (
	"fmt"
	"io"
	"regexp"
	"text/template"

	"github.com/rusq/fonted"
)

var tmplfuncs = template.FuncMap{
	"hexcode": func(code int) string { return fmt.Sprintf("0x%02X", code) },
}

const headerTemplate = `// {{.Name}}: {{.Size}} glyphs, {{len .Glyphs}} characters, {{.Size.ByteCount}} bytes each.
// Generated by fonted.
#pragma once

const unsigned char {{.Name}}[{{len .Glyphs}}][{{.Size.ByteCount}}] = {
{{- range .Glyphs}}
	{{.Blob}}, // {{hexcode .Code}} {{.Name}}
{{- end}}
};
`

var tmpl = template.Must(template.New("header").Funcs(tmplfuncs).Parse(headerTemplate))

var reIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type glyphLine struct {
	Code int
	Name string
	Blob string
}

type header struct {
	Name   string
	Size   fonted.Size
	Glyphs []glyphLine
}

// DefaultName returns the array name used when none is given, i.e. "font5x8".
func DefaultName(s fonted.Size) string {
	return "font" + s.Name
}

// Write writes the glyphs of the given size of every character in cc, in
// code order, as a C array called name. The output can be fed back to
// Collection.ImportHex once its comments are stripped.
func Write(w io.Writer, cc *fonted.Collection, size fonted.Size, name string) error {
	if !reIdent.MatchString(name) {
		return fmt.Errorf("invalid C identifier %q", name)
	}
	h := header{Name: name, Size: size}
	for _, c := range cc.Characters() {
		blob, err := c.GlyphOf(size).ExportHex()
		if err != nil {
			return err
		}
		h.Glyphs = append(h.Glyphs, glyphLine{Code: c.Code(), Name: c.Name(), Blob: blob})
	}
	if err := tmpl.Execute(w, h); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}
