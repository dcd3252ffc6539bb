// Package report turns a tax comparison into a paginated PDF.
//
// Content is assembled first as a list of blocks by a Builder; a Renderer
// then lays the blocks out page by page. Neither step touches the engine.
package report

import "time"

type Block interface {
	block()
}

type Heading struct {
	Text string
}

type Paragraph struct {
	Lines []string
	Bold  bool
}

type Table struct {
	Header []string
	Rows   [][]string
}

// Highlight is a shaded box used for the recommendation.
type Highlight struct {
	Lines []string
}

type NumberedList struct {
	Items []string
}

// Note is small italic print, such as a disclaimer.
type Note struct {
	Text string
}

type Spacer struct {
	Height float64
}

// PageBreak always starts a new page, however much room is left.
type PageBreak struct{}

func (Heading) block()      {}
func (Paragraph) block()    {}
func (Table) block()        {}
func (Highlight) block()    {}
func (NumberedList) block() {}
func (Note) block()         {}
func (Spacer) block()       {}
func (PageBreak) block()    {}

// Meta identifies one generated report.
type Meta struct {
	ID          string
	GeneratedAt time.Time
}

type Document struct {
	Title  string
	Meta   Meta
	Blocks []Block
}

type Builder struct {
	doc Document
}

func NewBuilder(title string, meta Meta) *Builder {
	return &Builder{doc: Document{Title: title, Meta: meta}}
}

func (b *Builder) add(block Block) *Builder {
	b.doc.Blocks = append(b.doc.Blocks, block)
	return b
}

func (b *Builder) Heading(text string) *Builder { return b.add(Heading{Text: text}) }

func (b *Builder) Paragraph(lines ...string) *Builder { return b.add(Paragraph{Lines: lines}) }

func (b *Builder) BoldParagraph(lines ...string) *Builder {
	return b.add(Paragraph{Lines: lines, Bold: true})
}

func (b *Builder) Table(header []string, rows ...[]string) *Builder {
	return b.add(Table{Header: header, Rows: rows})
}

func (b *Builder) Highlight(lines ...string) *Builder { return b.add(Highlight{Lines: lines}) }

func (b *Builder) NumberedList(items []string) *Builder { return b.add(NumberedList{Items: items}) }

func (b *Builder) Note(text string) *Builder { return b.add(Note{Text: text}) }

func (b *Builder) Space(height float64) *Builder { return b.add(Spacer{Height: height}) }

func (b *Builder) PageBreak() *Builder { return b.add(PageBreak{}) }

// Document returns the accumulated blocks. The builder may keep adding afterwards
// without affecting the returned value.
func (b *Builder) Document() Document {
	doc := b.doc
	doc.Blocks = append([]Block(nil), b.doc.Blocks...)
	return doc
}
