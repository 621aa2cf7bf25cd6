package services_test

import (
	"testing"

	"github.com/dairymanager/dairy-api/services"
	"github.com/stretchr/testify/assert"
)

func TestClosingBalance(t *testing.T) {
	tests := []struct {
		name        string
		live        float64
		futureSales float64
		futurePaid  float64
		want        float64
	}{
		{name: "no later activity equals live total", live: 1000, want: 1000},
		{name: "later sales and payments are undone", live: 1000, futureSales: 200, futurePaid: 50, want: 850},
		{name: "only later payments", live: 300, futurePaid: 100, want: 400},
		{name: "negative live balance", live: -50, futureSales: 25, want: -75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, services.ClosingBalance(tt.live, tt.futureSales, tt.futurePaid), 1e-9)
		})
	}
}

func TestOpeningBalance(t *testing.T) {
	assert.InDelta(t, 700.0, services.OpeningBalance(850, 200, 50), 1e-9)
	assert.InDelta(t, 850.0, services.OpeningBalance(850, 0, 0), 1e-9)
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		previous float64
		current  float64
		want     float64
	}{
		{name: "no previous revenue with sales today", previous: 0, current: 500, want: 100},
		{name: "growth", previous: 200, current: 300, want: 50},
		{name: "decline", previous: 400, current: 100, want: -75},
		{name: "nothing on either day", previous: 0, current: 0, want: 0},
		{name: "negative previous revenue falls through", previous: -100, current: 0, want: 0},
		{name: "negative previous revenue with sales today", previous: -100, current: 50, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, services.PercentChange(tt.previous, tt.current), 1e-9)
		})
	}
}

func TestWalkBack(t *testing.T) {
	snap := services.WalkBack(services.DayFigures{
		LiveTotalDues:        1000,
		FutureSales:          200,
		FutureCollections:    50,
		RevenueFinalized:     300,
		RevenueGross:         420,
		Collection:           100,
		PrevRevenueFinalized: 200,
	})

	assert.InDelta(t, 850.0, snap.ClosingBalance, 1e-9)
	assert.InDelta(t, 650.0, snap.OpeningBalance, 1e-9)
	assert.InDelta(t, 50.0, snap.PctChange, 1e-9)
	assert.Equal(t, 420.0, snap.RevenueGross)
	assert.Equal(t, 300.0, snap.RevenueFinalized)
	assert.Equal(t, 100.0, snap.Collection)
}
