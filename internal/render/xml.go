package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/ginjaninja78/challan-generator/internal/types"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// XMLOptions contains options for XML generation.
type XMLOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	IncludeXMLDeclaration bool

	// RootElement and RecordElement name the document elements.
	// Defaults: "receipts" and "receipt"
	RootElement   string
	RecordElement string

	// SerialAttribute is the record attribute holding the challan number.
	// Default: "n"
	SerialAttribute string
}

// DefaultXMLOptions returns the default generation options.
func DefaultXMLOptions() XMLOptions {
	return XMLOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		RootElement:           "receipts",
		RecordElement:         "receipt",
		SerialAttribute:       "n",
	}
}

// XML renders the batch as an XML document:
//
//	<receipts count="2">
//	  <receipt n="100" id="...">
//	    <challan>100</challan>
//	    <name>Asha Traders</name>
//	    ...
//	  </receipt>
//	</receipts>
type XML struct {
	Options XMLOptions
}

// Extension implements Renderer.
func (x *XML) Extension() string {
	return ".xml"
}

// Schema implements SchemaProvider with the XSD of the rendered document.
func (x *XML) Schema() ([]byte, string) {
	return GenerateXSD(x.options()), ".xsd"
}

func (x *XML) options() XMLOptions {
	if x.Options.RootElement == "" {
		return DefaultXMLOptions()
	}
	return x.Options
}

// Render implements Renderer.
func (x *XML) Render(records []types.ReceiptRecord) ([]byte, error) {
	opts := x.options()

	var buffer bytes.Buffer
	if opts.IncludeXMLDeclaration {
		buffer.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	}

	root := element{
		name:  opts.RootElement,
		attrs: [][2]string{{"count", strconv.Itoa(len(records))}},
	}
	for _, r := range records {
		root.children = append(root.children, recordElement(r, opts))
	}

	writeElement(&buffer, root, opts.Indent, 0)
	return buffer.Bytes(), nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// element is one XML element with either a text value or children.
type element struct {
	name     string
	attrs    [][2]string
	value    string
	children []element
}

// recordElement builds the element of one receipt. Fields follow the
// template field order; empty fields are written as self-closing tags.
func recordElement(r types.ReceiptRecord, opts XMLOptions) element {
	e := element{
		name: opts.RecordElement,
		attrs: [][2]string{
			{opts.SerialAttribute, strconv.Itoa(r.Serial)},
			{"id", r.ID},
		},
	}

	fields := r.Fields()
	for _, key := range types.FieldOrder {
		e.children = append(e.children, element{name: key, value: fields[key]})
	}
	return e
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, e element, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(e.name)
	for _, attr := range e.attrs {
		fmt.Fprintf(buffer, " %s=\"%s\"", attr[0], escapeXML(attr[1]))
	}

	if len(e.children) == 0 && e.value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if e.value != "" {
		buffer.WriteString(escapeXML(e.value))
	} else {
		buffer.WriteString("\n")
		for _, child := range e.children {
			writeElement(buffer, child, indent, level+1)
		}
		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(e.name)
	buffer.WriteString(">\n")
}

// escapeXML escapes special characters for XML.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

// =============================================================================
// XSD GENERATION
// =============================================================================

// GenerateXSD returns an XSD describing the documents XML.Render writes.
func GenerateXSD(opts XMLOptions) []byte {
	var buffer bytes.Buffer

	buffer.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
`)

	fmt.Fprintf(&buffer, `  <xs:element name="%s">
    <xs:complexType>
      <xs:sequence>
        <xs:element ref="%s" minOccurs="0" maxOccurs="unbounded"/>
      </xs:sequence>
      <xs:attribute name="count" type="xs:nonNegativeInteger" use="required"/>
    </xs:complexType>
  </xs:element>

`, opts.RootElement, opts.RecordElement)

	fmt.Fprintf(&buffer, `  <xs:element name="%s">
    <xs:complexType>
      <xs:sequence>
`, opts.RecordElement)

	for _, key := range types.FieldOrder {
		xsdType := "xs:string"
		if key == types.FieldChallan {
			xsdType = "xs:integer"
		}
		fmt.Fprintf(&buffer, "        <xs:element name=\"%s\" type=\"%s\" minOccurs=\"0\"/>\n", key, xsdType)
	}

	fmt.Fprintf(&buffer, `      </xs:sequence>
      <xs:attribute name="%s" type="xs:integer" use="required"/>
      <xs:attribute name="id" type="xs:string"/>
    </xs:complexType>
  </xs:element>

</xs:schema>
`, opts.SerialAttribute)

	return buffer.Bytes()
}
