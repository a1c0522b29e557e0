package repository

import (
	"context"
	"testing"

	"github.com/mediblog/mediblog-backend/internal/common"
	"github.com/mediblog/mediblog-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_CRUD(t *testing.T) {
	repo := NewCategoryRepository(setupTestDB(t))
	ctx := context.Background()

	category := &domain.Category{Name: "Sleep", Slug: "sleep"}
	require.NoError(t, repo.Create(ctx, category))
	require.NotEmpty(t, category.ID)

	found, err := repo.FindByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sleep", found.Name)

	found.Name = "Sleep Health"
	require.NoError(t, repo.Update(ctx, found))

	require.NoError(t, repo.Delete(ctx, category.ID))
	_, err = repo.FindByID(ctx, category.ID)
	assert.ErrorIs(t, err, common.ErrCategoryNotFound)
}

func TestCategoryRepository_DuplicateSlug(t *testing.T) {
	repo := NewCategoryRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Category{Name: "One", Slug: "dup"}))
	err := repo.Create(ctx, &domain.Category{Name: "Two", Slug: "dup"})
	assert.ErrorIs(t, err, common.ErrSlugTaken)
}

func TestCategoryRepository_FindByIDs(t *testing.T) {
	repo := NewCategoryRepository(setupTestDB(t))
	ctx := context.Background()

	seeded, err := repo.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, seeded)

	found, err := repo.FindByIDs(ctx, []string{seeded[0].ID, "no-such-id"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
