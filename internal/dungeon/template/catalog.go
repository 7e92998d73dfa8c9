package template

import "fmt"

// Lookup resolves a template id to its footprint.
type Lookup interface {
	// Size returns the footprint of id, or ErrMissingMetadata when the id is
	// unknown or declares no size.
	Size(id string) (width, height int, err error)
}

// Catalog is an ordered set of templates keyed by id.
//
// Invariant: ids are unique; IDs() returns them in insertion order.
type Catalog struct {
	order []string
	byID  map[string]*Template
}

// NewCatalog returns a catalog containing templates in the given order.
//
// Postcondition: returns an error on the first invalid or duplicate template.
func NewCatalog(templates ...*Template) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if err := c.Add(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add validates t and appends it to the catalog.
func (c *Catalog) Add(t *Template) error {
	if t == nil {
		return fmt.Errorf("adding template: nil template")
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if c.byID == nil {
		c.byID = make(map[string]*Template)
	}
	if _, dup := c.byID[t.ID]; dup {
		return fmt.Errorf("duplicate template id %q", t.ID)
	}
	c.byID[t.ID] = t
	c.order = append(c.order, t.ID)
	return nil
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// IDs returns a copy of the template ids in insertion order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	return append([]string{}, c.order...)
}

// Get returns the template for id.
func (c *Catalog) Get(id string) (*Template, bool) {
	if c == nil {
		return nil, false
	}
	t, ok := c.byID[id]
	return t, ok
}

// Size implements Lookup.
func (c *Catalog) Size(id string) (int, int, error) {
	t, ok := c.Get(id)
	if !ok {
		return 0, 0, fmt.Errorf("template %q: %w", id, ErrMissingMetadata)
	}
	if t.Width <= 0 || t.Height <= 0 {
		return 0, 0, fmt.Errorf("template %q size %dx%d: %w", id, t.Width, t.Height, ErrMissingMetadata)
	}
	return t.Width, t.Height, nil
}
