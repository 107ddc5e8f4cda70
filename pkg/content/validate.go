package content

import (
	"errors"

	lerrors "github.com/lessonkit/inversetrig/internal/errors"
	"github.com/lessonkit/inversetrig/pkg/store"
)

// WidgetSet reports which widget names can be embedded.
type WidgetSet interface {
	Has(name string) bool
}

// VariableSet resolves variable names used by scrubbers.
type VariableSet interface {
	Lookup(name string) (store.Definition, bool)
}

// Validate checks that section keys, block IDs and element IDs are unique
// across the document, headings are level 1 or 2, and every widget and
// scrubber reference resolves. All problems are reported, joined.
func (d *Document) Validate(widgets WidgetSet, vars VariableSet) error {
	var errs []error
	seen := make(map[string]string)

	claim := func(id, what string) {
		if id == "" {
			errs = append(errs, lerrors.New("L012").WithDetailf("%s without an ID", what))
			return
		}
		if prev, dup := seen[id]; dup {
			errs = append(errs, lerrors.New("L010").WithDetailf("%q used by %s and %s", id, prev, what))
			return
		}
		seen[id] = what
	}

	for _, s := range d.Sections {
		claim(s.SectionKey(), "section")
		if split, ok := s.(Split); ok && (len(split.Left) == 0 || len(split.Right) == 0) {
			errs = append(errs, lerrors.New("L012").WithDetailf("split %q needs two panes", split.Key))
		}
	}

	_ = d.Walk(func(_ Section, b Block) error {
		claim(b.ID, "block")
		switch body := b.Body.(type) {
		case nil:
			errs = append(errs, lerrors.New("L012").WithDetailf("block %q has no body", b.ID))
		case Heading:
			claim(body.ID, "heading in "+b.ID)
			if body.Level < 1 || body.Level > 2 {
				errs = append(errs, lerrors.New("L012").WithDetailf("heading %q has level %d", body.ID, body.Level))
			}
			errs = append(errs, checkInlines(body.Inlines, vars)...)
		case Paragraph:
			claim(body.ID, "paragraph in "+b.ID)
			errs = append(errs, checkInlines(body.Inlines, vars)...)
		case WidgetRef:
			if widgets == nil || !widgets.Has(body.Name) {
				errs = append(errs, lerrors.New("L011").WithDetailf("%q in block %q", body.Name, b.ID))
			}
		}
		return nil
	})

	return errors.Join(errs...)
}

func checkInlines(inlines []Inline, vars VariableSet) []error {
	var errs []error
	for _, in := range inlines {
		ref, ok := in.(ScrubberRef)
		if !ok {
			continue
		}
		if vars == nil {
			errs = append(errs, lerrors.New("L001").WithDetailf("%q", ref.Var))
			continue
		}
		if _, ok := vars.Lookup(ref.Var); !ok {
			errs = append(errs, lerrors.New("L001").WithDetailf("%q", ref.Var))
		}
	}
	return errs
}
