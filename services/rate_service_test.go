package services_test

import (
	"context"
	"testing"

	"github.com/dairymanager/dairy-api/models"
	"github.com/dairymanager/dairy-api/services"
	"github.com/dairymanager/dairy-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRepriceItems(t *testing.T) {
	a := &models.Product{ID: "pa", Name: "A", Price: 10}
	b := &models.Product{ID: "pb", Name: "B", Price: 20}

	items, total := services.RepriceItems([]services.PricedItem{
		{Item: models.LineItem{ProductID: "pa", Name: "A", Quantity: 2, Price: 10}, Product: a},
		{Item: models.LineItem{ProductID: "pb", Name: "B", Quantity: 1, Price: 20}, Product: b},
	}, map[string]float64{"pa": 8})

	assert.InDelta(t, 36.0, total, 1e-9)
	assert.InDelta(t, 8.0, items[0].Price, 1e-9)
	assert.InDelta(t, 20.0, items[1].Price, 1e-9)
}

func TestRepriceItems_UnresolvedKeepsStoredPrice(t *testing.T) {
	legacy := &models.Product{ID: "pa", Name: "A", Price: 10}

	items, total := services.RepriceItems([]services.PricedItem{
		{Item: models.LineItem{Name: "A", Quantity: 1, Price: 12}, Product: legacy},
		{Item: models.LineItem{Name: "Discontinued", Quantity: 3, Price: 5}},
	}, nil)

	assert.Equal(t, "pa", items[0].ProductID)
	assert.InDelta(t, 10.0, items[0].Price, 1e-9)
	assert.InDelta(t, 5.0, items[1].Price, 1e-9)
	assert.InDelta(t, 25.0, total, 1e-9)
}

func TestUpdateRates_RepricesTodaysDraft(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cust := testutil.CreateCustomer(t, e.db, e.scope, "Ravi", 0)
	a := testutil.CreateProduct(t, e.db, e.scope, "A", 10)
	b := testutil.CreateProduct(t, e.db, e.scope, "B", 20)

	_, err := e.ledger.SaveOrders(ctx, e.scope, today, []services.OrderInput{{
		CustomerID: cust.ID,
		Status:     models.OrderDraft,
		Items: models.LineItems{
			{ProductID: a.ID, Name: "A", Quantity: 2, Price: 10},
			{Name: "B", Quantity: 1, Price: 20},
		},
	}})
	require.NoError(t, err)

	svc := services.NewRateService(e.db, e.clock, zap.NewNop())
	result, err := svc.UpdateRates(ctx, e.scope, cust.ID, map[string]float64{a.ID: 8}, services.RateScopeToday)
	require.NoError(t, err)
	assert.True(t, result.DraftUpdated)
	require.NotNil(t, result.Order)
	assert.InDelta(t, 36.0, result.Order.Total, 1e-9)

	var order models.Order
	require.NoError(t, e.db.Where("customer_id = ?", cust.ID).First(&order).Error)
	assert.InDelta(t, 36.0, order.Total, 1e-9)
	assert.Equal(t, b.ID, order.Items[1].ProductID)
	assert.Zero(t, testutil.Dues(t, e.db, cust.ID))

	var rates []models.CustomerRate
	require.NoError(t, e.db.Where("customer_id = ?", cust.ID).Find(&rates).Error)
	require.Len(t, rates, 1)
	assert.InDelta(t, 8.0, rates[0].Rate, 1e-9)
}

func TestUpdateRates_FinalizedOrderUntouched(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cust := testutil.CreateCustomer(t, e.db, e.scope, "Ravi", 0)
	a := testutil.CreateProduct(t, e.db, e.scope, "A", 10)

	_, err := e.ledger.SaveOrders(ctx, e.scope, today, []services.OrderInput{{
		CustomerID: cust.ID,
		Status:     models.OrderFinalized,
		Items:      models.LineItems{{ProductID: a.ID, Name: "A", Quantity: 2, Price: 10}},
	}})
	require.NoError(t, err)

	result, err := services.NewRateService(e.db, e.clock, zap.NewNop()).
		UpdateRates(ctx, e.scope, cust.ID, map[string]float64{a.ID: 5}, services.RateScopeToday)
	require.NoError(t, err)
	assert.False(t, result.DraftUpdated)

	var order models.Order
	require.NoError(t, e.db.Where("customer_id = ?", cust.ID).First(&order).Error)
	assert.InDelta(t, 20.0, order.Total, 1e-9)
	assert.InDelta(t, 20.0, testutil.Dues(t, e.db, cust.ID), 1e-9)
}

func TestUpdateRates_FutureScopeOnlyReplacesRates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cust := testutil.CreateCustomer(t, e.db, e.scope, "Ravi", 0)
	a := testutil.CreateProduct(t, e.db, e.scope, "A", 10)
	b := testutil.CreateProduct(t, e.db, e.scope, "B", 20)
	svc := services.NewRateService(e.db, e.clock, zap.NewNop())

	_, err := e.ledger.SaveOrders(ctx, e.scope, today, []services.OrderInput{{
		CustomerID: cust.ID,
		Status:     models.OrderDraft,
		Items:      models.LineItems{{ProductID: a.ID, Name: "A", Quantity: 1, Price: 10}},
	}})
	require.NoError(t, err)

	_, err = svc.UpdateRates(ctx, e.scope, cust.ID, map[string]float64{a.ID: 9, b.ID: 18}, "")
	require.NoError(t, err)
	result, err := svc.UpdateRates(ctx, e.scope, cust.ID, map[string]float64{b.ID: 17}, services.RateScopeFuture)
	require.NoError(t, err)
	assert.False(t, result.DraftUpdated)

	var rates []models.CustomerRate
	require.NoError(t, e.db.Where("customer_id = ?", cust.ID).Find(&rates).Error)
	require.Len(t, rates, 1)
	assert.Equal(t, b.ID, rates[0].ProductID)

	var order models.Order
	require.NoError(t, e.db.Where("customer_id = ?", cust.ID).First(&order).Error)
	assert.InDelta(t, 10.0, order.Total, 1e-9)
}

func TestUpdateRates_Validation(t *testing.T) {
	e := newEnv(t)
	cust := testutil.CreateCustomer(t, e.db, e.scope, "Ravi", 0)
	svc := services.NewRateService(e.db, e.clock, zap.NewNop())

	_, err := svc.UpdateRates(context.Background(), e.scope, cust.ID, map[string]float64{"p1": -1}, services.RateScopeFuture)
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.UpdateRates(context.Background(), e.scope, cust.ID, nil, "yesterday")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.UpdateRates(context.Background(), e.scope, "missing", nil, services.RateScopeFuture)
	assert.ErrorIs(t, err, services.ErrCustomerNotFound)
}
