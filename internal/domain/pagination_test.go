package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dennisohere/quickform/internal/domain"
)

func TestPaginationParams_Validate(t *testing.T) {
	p := domain.PaginationParams{Page: 0, PageSize: 500}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, domain.MaxPageSize, p.PageSize)

	p = domain.PaginationParams{Page: 3, PageSize: 0}
	p.Validate()
	assert.Equal(t, domain.DefaultPageSize, p.PageSize)
	assert.Equal(t, 40, p.Offset())
}

func TestNewPaginatedResponse(t *testing.T) {
	page := domain.NewPaginatedResponse([]int{1, 2}, 2, 2, 5)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrev)

	empty := domain.NewPaginatedResponse[int](nil, 1, 20, 0)
	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"data":[]`)
	assert.False(t, empty.HasNext)
}
