package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/itnav/internal/validator"
	"github.com/aretw0/itnav/pkg/domain"
)

// ErrInvalidTree is returned by Build when the tree has error-class issues.
var ErrInvalidTree = errors.New("invalid decision tree")

// Builder manages the tree construction. Nodes and categories keep the
// order in which they were first added.
type Builder struct {
	order      []string
	nodes      map[string]*NodeBuilder
	categories []*CategoryBuilder
	news       []domain.NewsItem
}

// New creates a new tree builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new node in the tree.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{builder: b}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Category creates a category, or returns the existing one with that ID.
func (b *Builder) Category(id, name string) *CategoryBuilder {
	for _, cb := range b.categories {
		if cb.category.ID == id {
			cb.category.Name = name
			return cb
		}
	}
	cb := &CategoryBuilder{category: domain.Category{ID: id, Name: name}}
	b.categories = append(b.categories, cb)
	return cb
}

// News appends a news item.
func (b *Builder) News(item domain.NewsItem) *Builder {
	b.news = append(b.news, item)
	return b
}

// State assembles the tree without validating it.
func (b *Builder) State() domain.State {
	s := domain.State{
		Categories: make([]domain.Category, 0, len(b.categories)),
		Nodes:      domain.NewNodes(),
		News:       append([]domain.NewsItem{}, b.news...),
		Version:    domain.DefaultVersion,
	}
	for _, cb := range b.categories {
		s.Categories = append(s.Categories, cb.category)
	}
	for _, id := range b.order {
		s.Nodes = s.Nodes.With(id, b.nodes[id].node.Clone())
	}
	return s
}

// Build assembles and validates the tree. Warnings are tolerated.
func (b *Builder) Build() (domain.State, error) {
	s := b.State()
	if errs := validator.Errors(validator.Validate(&s)); len(errs) > 0 {
		return s, fmt.Errorf("%w:\n%s", ErrInvalidTree, validator.Format(errs))
	}
	return s, nil
}

// CategoryBuilder provides a fluent API for configuring a category.
type CategoryBuilder struct {
	category domain.Category
}

// Describe sets the category description.
func (c *CategoryBuilder) Describe(description string) *CategoryBuilder {
	c.category.Description = description
	return c
}

// Icon sets the category icon.
func (c *CategoryBuilder) Icon(icon string) *CategoryBuilder {
	c.category.Icon = icon
	return c
}

// Start sets the node a walk in this category begins at.
func (c *CategoryBuilder) Start(nodeID string) *CategoryBuilder {
	c.category.StartNodeID = nodeID
	return c
}
