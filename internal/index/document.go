package index

import (
	"path"
	"strings"
	"time"

	"github.com/stormlightlabs/docsift/internal/tokenize"
)

// CodeBlock is one fenced or indented code segment. Language is metadata
// only and is never tokenized.
type CodeBlock struct {
	Language string
	Content  string
}

// Document is one corpus entry.
//
// ID is assigned by the Builder and is only stable within one index
// generation. Path is the unique key.
type Document struct {
	ID         int
	Path       string
	Title      string
	Category   string
	Tags       []string
	Headings   []string
	CodeBlocks []CodeBlock
	Body       string
	// Extra holds unrecognized metadata keys, stringified.
	Extra      map[string]string
	Checksum   string
	ModifiedAt time.Time
	Size       int64
}

// Stem returns the file name of the document without directory or extension.
func (d *Document) Stem() string {
	base := path.Base(d.Path)
	return strings.TrimSuffix(base, path.Ext(base))
}

// FieldText returns the text segments indexed for field.
func (d *Document) FieldText(field tokenize.Field) []string {
	switch field {
	case tokenize.FieldTitle:
		return []string{d.Title}
	case tokenize.FieldHeading:
		return d.Headings
	case tokenize.FieldFilename:
		return []string{d.Stem()}
	case tokenize.FieldCode:
		out := make([]string, len(d.CodeBlocks))
		for i, cb := range d.CodeBlocks {
			out[i] = cb.Content
		}
		return out
	case tokenize.FieldBody:
		return []string{d.Body}
	default:
		return nil
	}
}

// HasTag reports whether the document carries tag.
func (d *Document) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Unchanged reports whether other holds the same file contents as d. The
// checksum decides; a touched file with identical bytes is unchanged.
func (d *Document) Unchanged(other *Document) bool {
	return other != nil &&
		d.Path == other.Path &&
		d.Checksum != "" &&
		d.Checksum == other.Checksum
}

func (d *Document) withID(id int) *Document {
	clone := *d
	clone.ID = id
	return &clone
}
