package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/model"
)

func TestAbandonedProductsRanksCategories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice")
	f.seedUser(t, "bob")
	f.seedCategory(t, 1, "Sporting Goods")
	f.seedCategory(t, 2, "Appliances")
	f.seedCategory(t, 3, "Garden")

	kite := f.seedProduct(t, "seller", "Kite", "2.99", 100, 1)
	ball := f.seedProduct(t, "seller", "Ball", "11.99", 10, 1)
	barrow := f.seedProduct(t, "seller", "Wheelbarrow", "29.99", 5, 2)
	f.seedProduct(t, "seller", "Hose", "9.99", 3, 3) // never carted

	// alice abandons two sporting goods, bob one appliance; duplicate units of
	// the same product must not inflate the count
	f.addUnits(t, "alice", kite.ID, 2)
	f.addUnits(t, "alice", ball.ID, 1)
	f.addUnits(t, "bob", barrow.ID, 1)

	rows, err := f.report.AbandonedProducts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Sporting Goods", rows[0].Label)
	assert.EqualValues(t, 2, rows[0].ProductCount)
	assert.Equal(t, "Appliances", rows[1].Label)
	assert.EqualValues(t, 1, rows[1].ProductCount)
}

func TestAbandonedProductsIgnoresCompletedOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice")
	f.seedCategory(t, 1, "Sporting Goods")
	kite := f.seedProduct(t, "seller", "Kite", "2.99", 100, 1)
	paymentType := f.seedPaymentType(t, "alice", "Visa")

	order := f.addUnits(t, "alice", kite.ID, 1)
	_, err := f.checkout.Complete(ctx, "alice", order.ID, paymentType.ID)
	require.NoError(t, err)

	rows, err := f.report.AbandonedProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// The unique open marker keeps this report empty in normal operation; rows can
// only come from legacy data, which the test fakes by bypassing the marker.
func TestMultipleOpenOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice")
	f.seedUser(t, "bob")

	rows, err := f.report.MultipleOpenOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = f.cart.OpenOrder(ctx, "alice")
	require.NoError(t, err)
	_, err = f.cart.OpenOrder(ctx, "bob")
	require.NoError(t, err)

	rows, err = f.report.MultipleOpenOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows, "one open order per user is not an anomaly")

	// legacy rows carry no open marker, so they slip past the unique index
	require.NoError(t, f.db.Create(&model.Order{UserID: "alice"}).Error)
	require.NoError(t, f.db.Create(&model.Order{UserID: "alice"}).Error)

	rows, err = f.report.MultipleOpenOrders(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].UserID)
	assert.EqualValues(t, 3, rows[0].OpenOrders)
}

func TestOrderHistoryNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice")
	f.seedCategory(t, 1, "Sporting Goods")
	kite := f.seedProduct(t, "seller", "Kite", "2.99", 100, 1)
	barrow := f.seedProduct(t, "seller", "Wheelbarrow", "29.99", 5, 1)
	paymentType := f.seedPaymentType(t, "alice", "Visa")

	first := f.addUnits(t, "alice", kite.ID, 2)
	_, err := f.checkout.Complete(ctx, "alice", first.ID, paymentType.ID)
	require.NoError(t, err)

	second := f.addUnits(t, "alice", barrow.ID, 1)
	_, err = f.checkout.Complete(ctx, "alice", second.ID, paymentType.ID)
	require.NoError(t, err)

	// a still-open cart never shows up in history
	f.addUnits(t, "alice", kite.ID, 1)

	entries, err := f.report.OrderHistory(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, second.ID, entries[0].OrderID)
	assert.Equal(t, first.ID, entries[1].OrderID)
	assert.Equal(t, paymentType.ID, entries[0].PaymentTypeID)

	require.Len(t, entries[1].Lines, 1)
	assert.Equal(t, 2, entries[1].Lines[0].Units)
	assert.Equal(t, "5.98", entries[1].Lines[0].Subtotal.StringFixed(2))
	assert.Equal(t, "5.98", entries[1].Total.StringFixed(2))
}

func TestSellerProductStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "seller")
	f.seedCategory(t, 1, "Sporting Goods")
	cannon := f.seedProduct(t, "seller", "T-Shirt Cannon", "99.99", 8, 1)
	unsold := f.seedProduct(t, "seller", "Back Scratcher", "5.99", 200, 1)
	f.seedProduct(t, "someone-else", "Ball", "11.99", 10, 1)

	// three units sold across two completed orders
	f.seedUser(t, "alice")
	f.seedUser(t, "bob")
	alicePay := f.seedPaymentType(t, "alice", "Visa")
	bobPay := f.seedPaymentType(t, "bob", "Amex")

	aliceOrder := f.addUnits(t, "alice", cannon.ID, 2)
	_, err := f.checkout.Complete(ctx, "alice", aliceOrder.ID, alicePay.ID)
	require.NoError(t, err)

	bobOrder := f.addUnits(t, "bob", cannon.ID, 1)
	_, err = f.checkout.Complete(ctx, "bob", bobOrder.ID, bobPay.ID)
	require.NoError(t, err)

	// an abandoned unit in an open cart does not count as sold
	f.seedUser(t, "carol")
	f.addUnits(t, "carol", cannon.ID, 1)

	require.NoError(t, f.engagement.Rate(ctx, "alice", cannon.ID, 4))
	require.NoError(t, f.engagement.Rate(ctx, "bob", cannon.ID, 5))
	require.NoError(t, f.engagement.Rate(ctx, "carol", cannon.ID, 3))
	require.NoError(t, f.engagement.Like(ctx, "alice", cannon.ID, true))

	rows, err := f.report.SellerProductStatus(ctx, "seller")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[uint]int{}
	for i, row := range rows {
		byID[row.ProductID] = i
	}

	cannonRow := rows[byID[cannon.ID]]
	assert.EqualValues(t, 3, cannonRow.NumberSold)
	assert.InDelta(t, 4.0, cannonRow.AverageRating, 0.0001)
	assert.EqualValues(t, 1, cannonRow.Likes)

	unsoldRow := rows[byID[unsold.ID]]
	assert.EqualValues(t, 0, unsoldRow.NumberSold)
	assert.Zero(t, unsoldRow.AverageRating, "unrated products report zero, not NaN")
}
