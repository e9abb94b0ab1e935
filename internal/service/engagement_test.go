package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/model"
)

func TestRateBounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCategory(t, 1, "Sporting Goods")
	kite := f.seedProduct(t, "seller", "Kite", "2.99", 1, 1)

	assert.ErrorIs(t, f.engagement.Rate(ctx, "alice", kite.ID, 0), ErrValidation)
	assert.ErrorIs(t, f.engagement.Rate(ctx, "alice", kite.ID, 6), ErrValidation)
	assert.ErrorIs(t, f.engagement.Rate(ctx, "alice", 9999, 3), ErrNotFound)
}

func TestRateOverwritesPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCategory(t, 1, "Sporting Goods")
	kite := f.seedProduct(t, "seller", "Kite", "2.99", 1, 1)

	require.NoError(t, f.engagement.Rate(ctx, "alice", kite.ID, 2))
	require.NoError(t, f.engagement.Rate(ctx, "alice", kite.ID, 5))

	var ratings []model.ProductRating
	require.NoError(t, f.db.Where("product_id = ?", kite.ID).Find(&ratings).Error)
	require.Len(t, ratings, 1, "one rating per (product, user)")
	assert.Equal(t, 5, ratings[0].Score)
}

func TestLikeToggles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCategory(t, 1, "Sporting Goods")
	kite := f.seedProduct(t, "seller", "Kite", "2.99", 1, 1)

	require.NoError(t, f.engagement.Like(ctx, "alice", kite.ID, true))
	require.NoError(t, f.engagement.Like(ctx, "bob", kite.ID, true))
	require.NoError(t, f.engagement.Like(ctx, "bob", kite.ID, false))

	view, err := f.catalog.Get(ctx, kite.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, view.Likes, "an unliked row no longer counts")
}
