package dataset

import (
	"testing"
	"time"

	"github.com/aretw0/itnav/internal/validator"
	"github.com/aretw0/itnav/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	s := Default(now)

	assert.Len(t, s.Categories, 14)
	assert.Equal(t, 97, s.Nodes.Len())
	require.Len(t, s.News, 2)
	assert.Equal(t, "2024-05-10", s.News[0].Date)
	assert.Equal(t, "2025-05-20", s.News[1].Date)
	assert.Equal(t, domain.DefaultVersion, s.Version)
	assert.True(t, s.LastSavedAt.IsZero())

	start, ok := s.Category("print")
	require.True(t, ok)
	assert.Equal(t, "p_1", start.StartNodeID)
	assert.Equal(t, "p_1", s.Nodes.IDs()[0])
}

func TestDefault_IsClean(t *testing.T) {
	s := Default(time.Now())
	assert.Empty(t, validator.Validate(&s))
}

func TestDefault_IndependentCopies(t *testing.T) {
	a := Default(time.Now())
	b := Default(time.Now())
	a.Categories[0].Name = "changed"
	assert.NotEqual(t, a.Categories[0].Name, b.Categories[0].Name)
}
