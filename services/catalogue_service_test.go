package services_test

import (
	"context"
	"testing"

	"github.com/dairymanager/dairy-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProductService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := services.NewProductService(e.db, zap.NewNop())

	ghee, err := svc.Create(ctx, e.scope, services.CreateProductInput{Name: "Ghee 500ml", Price: 320})
	require.NoError(t, err)
	assert.Equal(t, "p1", ghee.Code)
	assert.Equal(t, "Unit", ghee.Unit)
	assert.True(t, ghee.Active)

	curd, err := svc.Create(ctx, e.scope, services.CreateProductInput{Name: "Curd", Price: 25, Unit: "Pkt"})
	require.NoError(t, err)
	assert.Equal(t, "p2", curd.Code)

	updated, err := svc.UpdatePrice(ctx, e.scope, curd.ID, 28)
	require.NoError(t, err)
	assert.InDelta(t, 28.0, updated.Price, 1e-9)

	require.NoError(t, svc.Deactivate(ctx, e.scope, ghee.ID))
	products, err := svc.List(ctx, e.scope)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, curd.ID, products[0].ID)

	_, err = svc.Create(ctx, e.scope, services.CreateProductInput{Name: "Bad", Price: -1})
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = svc.UpdatePrice(ctx, e.scope, "missing", 1)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
	assert.ErrorIs(t, svc.Deactivate(ctx, e.scope, "missing"), services.ErrProductNotFound)
}

func TestEmployeeService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := services.NewEmployeeService(e.db, zap.NewNop())

	first, err := svc.Create(ctx, e.scope, services.CreateEmployeeInput{Name: "Suresh", Phone: "98", Role: "Delivery"})
	require.NoError(t, err)
	assert.Equal(t, "E101", first.Code)
	second, err := svc.Create(ctx, e.scope, services.CreateEmployeeInput{Name: "Meena", Role: "Collection"})
	require.NoError(t, err)
	assert.Equal(t, "E102", second.Code)

	require.NoError(t, svc.Delete(ctx, e.scope, first.ID))
	employees, err := svc.List(ctx, e.scope)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "Meena", employees[0].Name)

	assert.ErrorIs(t, svc.Delete(ctx, e.scope, first.ID), services.ErrEmployeeNotFound)
	_, err = svc.Create(ctx, e.scope, services.CreateEmployeeInput{Name: " "})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestExpenseService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := services.NewExpenseService(e.db, zap.NewNop())

	for i, in := range []services.CreateExpenseInput{
		{Title: "Diesel", Amount: 500, Category: "Fuel", Date: today.AddDays(-3), EmployeeID: "e1"},
		{Title: "Ice", Amount: 80, Category: "Supplies", Date: today.AddDays(-1)},
		{Title: "Diesel", Amount: 450, Category: "Fuel", Date: today, EmployeeID: "e1"},
	} {
		_, err := svc.Create(ctx, e.scope, in)
		require.NoError(t, err, "expense %d", i)
	}

	all, err := svc.List(ctx, e.scope, services.ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, today, all[0].Date)

	ranged, err := svc.List(ctx, e.scope, services.ExpenseFilter{Start: today.AddDays(-1), End: today})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	// A half-open range is ignored
	startOnly, err := svc.List(ctx, e.scope, services.ExpenseFilter{Start: today})
	require.NoError(t, err)
	assert.Len(t, startOnly, 3)

	byEmployee, err := svc.List(ctx, e.scope, services.ExpenseFilter{EmployeeID: "e1"})
	require.NoError(t, err)
	assert.Len(t, byEmployee, 2)

	_, err = svc.Create(ctx, e.scope, services.CreateExpenseInput{Title: "Free", Amount: 0, Date: today})
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = svc.Create(ctx, e.scope, services.CreateExpenseInput{Title: "Undated", Amount: 1})
	assert.ErrorIs(t, err, services.ErrValidation)
}
