// =============================================================================
// Challan Generator - Document Renderers
// =============================================================================
//
// A renderer turns the finalized ledger into one output document. Every
// renderer consumes the same ordered record list and the same field keys
// (types.FieldOrder), so switching formats never changes the content.
//
// FORMATS:
//   xlsx : a template workbook whose placeholder row is repeated per record
//   xml  : <receipts><receipt n="...">...</receipt></receipts>
//
// =============================================================================

package render

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/challan-generator/internal/types"
)

// Output formats.
const (
	FormatXLSX = "xlsx"
	FormatXML  = "xml"
)

// Renderer writes a batch of receipts into a document.
type Renderer interface {
	// Render returns the document bytes for records in serial order.
	Render(records []types.ReceiptRecord) ([]byte, error)

	// Extension is the output file extension, including the dot.
	Extension() string
}

// SchemaProvider is implemented by renderers whose documents come with a
// schema file written next to them.
type SchemaProvider interface {
	// Schema returns the schema bytes and their file extension.
	Schema() ([]byte, string)
}

// Options selects and configures a renderer.
type Options struct {
	// Format is "xlsx" or "xml".
	Format string

	// Template is the XLSX template path. Empty uses the built-in layout.
	Template string

	// Sheet is the template sheet. Empty uses the first sheet.
	Sheet string
}

// New returns the renderer for opts.Format.
func New(opts Options) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", FormatXLSX:
		return &XLSX{TemplatePath: opts.Template, Sheet: opts.Sheet}, nil
	case FormatXML:
		return &XML{Options: DefaultXMLOptions()}, nil
	default:
		return nil, fmt.Errorf("unknown output format '%s' (expected xlsx or xml)", opts.Format)
	}
}
