// Package registry maps reference identifiers to their parsed items and
// link targets.
//
// A Registry is only obtainable from Builder.Build, so every lookup sees the
// complete set of documents: pages may link to any other page.
package registry

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
)

// Blank is the reserved identifier for intentionally unlinked references.
const Blank = ""

// BlankLink is the link target the blank identifier resolves to.
const BlankLink = "#"

var placeholder = &domain.ReferenceItem{Identifier: Blank}

// Link returns the output path of the page for identifier.
func Link(identifier string) string {
	return identifier + ".html"
}

// Builder collects items before the registry is sealed.
type Builder struct {
	items map[string]*domain.ReferenceItem
	log   *logrus.Logger
}

// NewBuilder creates an empty Builder.
func NewBuilder(log *logrus.Logger) *Builder {
	return &Builder{
		items: make(map[string]*domain.ReferenceItem),
		log:   log,
	}
}

// Register adds item under identifier. A second registration of the same
// identifier replaces the first and logs a warning.
func (b *Builder) Register(identifier string, item *domain.ReferenceItem) {
	if prev, ok := b.items[identifier]; ok {
		b.log.WithFields(logrus.Fields{
			"identifier": identifier,
			"previous":   prev.SourcePath,
			"document":   item.SourcePath,
		}).Warn("duplicate identifier, keeping the last registration")
	}
	b.items[identifier] = item
}

// Len returns the number of registered identifiers.
func (b *Builder) Len() int {
	return len(b.items)
}

// Build seals the builder into a read-only Registry. The builder must not be
// used afterwards.
func (b *Builder) Build() *Registry {
	ids := make([]string, 0, len(b.items))
	for id := range b.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	r := &Registry{items: b.items, ids: ids}
	b.items = nil
	return r
}

// Registry is the sealed identifier → item mapping. It is read-only and safe
// for concurrent use.
type Registry struct {
	items map[string]*domain.ReferenceItem
	ids   []string
}

// Lookup returns the item registered under identifier. The blank identifier
// yields a placeholder item.
func (r *Registry) Lookup(identifier string) (*domain.ReferenceItem, error) {
	if identifier == Blank {
		return placeholder, nil
	}
	item, ok := r.items[identifier]
	if !ok {
		return nil, &domain.LookupError{Identifier: identifier}
	}
	return item, nil
}

// Resolve returns the link target for identifier.
func (r *Registry) Resolve(identifier string) (string, error) {
	if identifier == Blank {
		return BlankLink, nil
	}
	if _, ok := r.items[identifier]; !ok {
		return "", &domain.LookupError{Identifier: identifier}
	}
	return Link(identifier), nil
}

// DisplayName returns the canonical name of the item registered under identifier.
func (r *Registry) DisplayName(identifier string) (string, error) {
	item, err := r.Lookup(identifier)
	if err != nil {
		return "", err
	}
	if item == placeholder {
		return "", nil
	}
	return item.DisplayName(), nil
}

// Has reports whether identifier is registered.
func (r *Registry) Has(identifier string) bool {
	_, ok := r.items[identifier]
	return ok
}

// Identifiers returns all registered identifiers in sorted order.
func (r *Registry) Identifiers() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// Items returns all registered items ordered by identifier.
func (r *Registry) Items() []*domain.ReferenceItem {
	out := make([]*domain.ReferenceItem, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.items[id])
	}
	return out
}

// Len returns the number of registered identifiers.
func (r *Registry) Len() int {
	return len(r.ids)
}
