package content

// Document is an ordered list of layout sections. It is built once and
// never mutated.
type Document struct {
	ID       string
	Title    string
	Sections []Section
}

// Section is a layout container: Stack or Split.
type Section interface {
	// SectionKey is the stable key of the layout container.
	SectionKey() string

	// Blocks returns the section's blocks in reading order.
	Blocks() []Block
}

// Stack is a single column of blocks with a maximum width.
type Stack struct {
	Key      string
	MaxWidth string // "xl", "2xl", ...
	Items    []Block
}

// SectionKey implements Section.
func (s Stack) SectionKey() string { return s.Key }

// Blocks implements Section.
func (s Stack) Blocks() []Block { return s.Items }

// Split places two panes side by side.
type Split struct {
	Key   string
	Ratio string // "1:1"
	Gap   string
	Left  []Block
	Right []Block
}

// SectionKey implements Section.
func (s Split) SectionKey() string { return s.Key }

// Blocks implements Section. Left pane blocks come first.
func (s Split) Blocks() []Block {
	out := make([]Block, 0, len(s.Left)+len(s.Right))
	out = append(out, s.Left...)
	return append(out, s.Right...)
}

// Block is one addressable unit of content.
type Block struct {
	ID      string
	Padding string // "sm", "md", "lg"
	Body    Body
}

// Body is the content of a block: Heading, Paragraph, Rule or WidgetRef.
type Body interface {
	isBody()
}

// Heading is an editable heading of level 1 or 2.
type Heading struct {
	ID      string
	Level   int
	Inlines []Inline
}

// Paragraph is an editable paragraph.
type Paragraph struct {
	ID      string
	Inlines []Inline
}

// Rule is a horizontal divider.
type Rule struct{}

// WidgetRef embeds a registered widget by name.
type WidgetRef struct {
	Name string
}

func (Heading) isBody()   {}
func (Paragraph) isBody() {}
func (Rule) isBody()      {}
func (WidgetRef) isBody() {}

// Walk calls fn for every block in document order, stopping at the first
// error.
func (d *Document) Walk(fn func(section Section, block Block) error) error {
	for _, s := range d.Sections {
		for _, b := range s.Blocks() {
			if err := fn(s, b); err != nil {
				return err
			}
		}
	}
	return nil
}

// Widgets returns the widget names referenced by the document, in order.
func (d *Document) Widgets() []string {
	var out []string
	_ = d.Walk(func(_ Section, b Block) error {
		if w, ok := b.Body.(WidgetRef); ok {
			out = append(out, w.Name)
		}
		return nil
	})
	return out
}
