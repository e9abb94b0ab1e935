package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/model"
)

func TestCompleteRequiresPaymentType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "buyer")
	f.seedCategory(t, 1, "Sporting Goods")
	kite := f.seedProduct(t, "seller", "Kite", "5.00", 10, 1)
	order := f.addUnits(t, "buyer", kite.ID, 3)

	_, err := f.checkout.Complete(ctx, "buyer", order.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)

	var fresh model.Order
	require.NoError(t, f.db.First(&fresh, order.ID).Error)
	assert.Nil(t, fresh.DateCompleted, "rejected checkout must not complete the order")
	assert.Nil(t, fresh.PaymentTypeID)

	var product model.Product
	require.NoError(t, f.db.First(&product, kite.ID).Error)
	assert.Equal(t, 10, product.Quantity, "rejected checkout must not touch stock")
}

func TestCompleteDecrementsStockAndFinalizes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "buyer")
	f.seedCategory(t, 1, "Sporting Goods")
	kite := f.seedProduct(t, "seller", "Kite", "5.00", 10, 1)
	paymentType := f.seedPaymentType(t, "buyer", "American Express")
	order := f.addUnits(t, "buyer", kite.ID, 3)

	result, err := f.checkout.Complete(ctx, "buyer", order.ID, paymentType.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, result.OrderID)
	assert.Equal(t, "15.00", result.Total.StringFixed(2))

	var fresh model.Order
	require.NoError(t, f.db.First(&fresh, order.ID).Error)
	require.NotNil(t, fresh.DateCompleted)
	require.NotNil(t, fresh.PaymentTypeID)
	assert.Equal(t, paymentType.ID, *fresh.PaymentTypeID)
	assert.Nil(t, fresh.OpenUserID)

	var product model.Product
	require.NoError(t, f.db.First(&product, kite.ID).Error)
	assert.Equal(t, 7, product.Quantity)
}

// The scenario end to end: two units of a 5.00 product with stock 10, then a
// fresh cart afterwards.
func TestCompletePurchaseScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "buyer")
	f.seedCategory(t, 1, "Sporting Goods")
	p := f.seedProduct(t, "seller", "Bugatti", "5.00", 10, 1)
	paymentType := f.seedPaymentType(t, "buyer", "Visa")
	order := f.addUnits(t, "buyer", p.ID, 2)

	result, err := f.checkout.Complete(ctx, "buyer", order.ID, paymentType.ID)
	require.NoError(t, err)
	assert.Equal(t, paymentType.ID, result.PaymentTypeID)
	assert.False(t, result.DateCompleted.IsZero())

	var product model.Product
	require.NoError(t, f.db.First(&product, p.ID).Error)
	assert.Equal(t, 8, product.Quantity)

	next, err := f.cart.OpenOrder(ctx, "buyer")
	require.NoError(t, err)
	assert.NotEqual(t, order.ID, next.ID, "a completed order is never reopened")
	assert.Nil(t, next.DateCompleted)
}

func TestCompleteRejectsForeignPaymentType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "buyer")
	f.seedCategory(t, 1, "Sporting Goods")
	kite := f.seedProduct(t, "seller", "Kite", "5.00", 10, 1)
	other := f.seedPaymentType(t, "someone-else", "Visa")
	order := f.addUnits(t, "buyer", kite.ID, 1)

	_, err := f.checkout.Complete(ctx, "buyer", order.ID, other.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompleteUnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "buyer")
	paymentType := f.seedPaymentType(t, "buyer", "Visa")

	_, err := f.checkout.Complete(ctx, "buyer", 9999, paymentType.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	order, oerr := f.cart.OpenOrder(ctx, "buyer")
	require.NoError(t, oerr)
	_, err = f.checkout.Complete(ctx, "buyer", order.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "buyer")
	f.seedCategory(t, 1, "Sporting Goods")
	kite := f.seedProduct(t, "seller", "Kite", "5.00", 10, 1)
	paymentType := f.seedPaymentType(t, "buyer", "Visa")
	order := f.addUnits(t, "buyer", kite.ID, 1)

	_, err := f.checkout.Complete(ctx, "buyer", order.ID, paymentType.ID)
	require.NoError(t, err)

	_, err = f.checkout.Complete(ctx, "buyer", order.ID, paymentType.ID)
	assert.ErrorIs(t, err, ErrConflict)

	var product model.Product
	require.NoError(t, f.db.First(&product, kite.ID).Error)
	assert.Equal(t, 9, product.Quantity, "the second attempt must not decrement again")
}

// Stock is only validated here, never at add time; a short cart aborts the
// whole transaction and the order stays open.
func TestCompleteInsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "buyer")
	f.seedCategory(t, 1, "Sporting Goods")
	kite := f.seedProduct(t, "seller", "Kite", "5.00", 2, 1)
	paymentType := f.seedPaymentType(t, "buyer", "Visa")
	order := f.addUnits(t, "buyer", kite.ID, 3)

	_, err := f.checkout.Complete(ctx, "buyer", order.ID, paymentType.ID)
	assert.ErrorIs(t, err, ErrValidation)

	var fresh model.Order
	require.NoError(t, f.db.First(&fresh, order.ID).Error)
	assert.Nil(t, fresh.DateCompleted, "the order must remain open after the rollback")
	assert.Nil(t, fresh.PaymentTypeID)
	require.NotNil(t, fresh.OpenUserID)

	var product model.Product
	require.NoError(t, f.db.First(&product, kite.ID).Error)
	assert.Equal(t, 2, product.Quantity)

	// the cart contents survive a failed checkout
	cart, err := f.cart.ViewCart(ctx, "buyer")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Units)
}

func TestCompleteChargesCurrentPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "buyer")
	f.seedCategory(t, 1, "Sporting Goods")
	kite := f.seedProduct(t, "seller", "Kite", "5.00", 10, 1)
	paymentType := f.seedPaymentType(t, "buyer", "Visa")
	order := f.addUnits(t, "buyer", kite.ID, 2)

	// seller raises the price while the items sit in the cart
	require.NoError(t, f.db.Model(&model.Product{}).
		Where("id = ?", kite.ID).
		Updates(map[string]interface{}{"price": "7.25", "version": kite.Version + 1}).Error)

	result, err := f.checkout.Complete(ctx, "buyer", order.ID, paymentType.ID)
	require.NoError(t, err)
	assert.Equal(t, "14.50", result.Total.StringFixed(2))
}
