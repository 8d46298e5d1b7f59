package x3d

import (
	"bytes"
	"encoding/xml"
	"io"
)

// Encoder writes a Document as X3D XML.
type Encoder struct {
	w      io.Writer
	indent string
	header bool
}

// NewEncoder returns an encoder writing to w with two-space indentation and
// an XML declaration.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, indent: "  ", header: true}
}

// SetIndent sets the per-level indentation; "" writes everything on one line.
func (e *Encoder) SetIndent(indent string) {
	e.indent = indent
}

// SetHeader controls whether the XML declaration is written.
func (e *Encoder) SetHeader(on bool) {
	e.header = on
}

// Encode writes every top-level element of d. The class attribute comes
// first, followed by the other attributes in the order they were first set.
func (e *Encoder) Encode(d *Document) error {
	if e.header {
		if _, err := io.WriteString(e.w, xml.Header); err != nil {
			return err
		}
	}
	enc := xml.NewEncoder(e.w)
	enc.Indent("", e.indent)
	for _, el := range d.Roots() {
		if err := encodeElement(enc, el); err != nil {
			return err
		}
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	if e.indent != "" {
		_, err := io.WriteString(e.w, "\n")
		return err
	}
	return nil
}

func encodeElement(enc *xml.Encoder, el *Element) error {
	start := xml.StartElement{Name: xml.Name{Local: el.Name()}}
	if el.Class != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "class"}, Value: el.Class})
	}
	for _, a := range el.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value.String()})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range el.Children {
		if err := encodeElement(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// Marshal returns the indented X3D encoding of d.
func Marshal(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo encodes d to w with the default encoder settings.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := NewEncoder(cw).Encode(d)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
