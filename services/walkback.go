package services

// DayFigures are the aggregates the walk-back needs for one target date D
type DayFigures struct {
	LiveTotalDues        float64 // sum of every customer's current dues
	FutureSales          float64 // finalized order totals dated after D
	FutureCollections    float64 // payment amounts dated after D
	RevenueFinalized     float64 // finalized order totals dated D
	RevenueGross         float64 // all order totals dated D, drafts included
	Collection           float64 // payment amounts dated D
	PrevRevenueFinalized float64 // finalized order totals dated D-1
}

// DaySnapshot is the reconstructed state of the books for date D
type DaySnapshot struct {
	ClosingBalance   float64 // dues at the end of D
	OpeningBalance   float64 // dues at the start of D
	RevenueFinalized float64
	RevenueGross     float64
	Collection       float64
	PctChange        float64 // finalized revenue change against D-1, in percent
}

// WalkBack reconstructs the balance at D from the live balance by undoing every
// transaction dated after D, then undoing D itself to get the opening balance.
func WalkBack(f DayFigures) DaySnapshot {
	closing := ClosingBalance(f.LiveTotalDues, f.FutureSales, f.FutureCollections)
	return DaySnapshot{
		ClosingBalance:   closing,
		OpeningBalance:   OpeningBalance(closing, f.RevenueFinalized, f.Collection),
		RevenueFinalized: f.RevenueFinalized,
		RevenueGross:     f.RevenueGross,
		Collection:       f.Collection,
		PctChange:        PercentChange(f.PrevRevenueFinalized, f.RevenueFinalized),
	}
}

// ClosingBalance reverses later sales (which raised dues) and later collections
// (which lowered them)
func ClosingBalance(liveTotalDues, futureSales, futureCollections float64) float64 {
	return liveTotalDues - futureSales + futureCollections
}

// OpeningBalance reverses the day's own finalized sales and collections
func OpeningBalance(closingBalance, revenueFinalized, collection float64) float64 {
	return closingBalance - revenueFinalized + collection
}

// PercentChange compares finalized revenue with the previous day.
// A previous value of zero or below yields 100 when today is positive and 0 otherwise;
// negative previous revenue is not treated specially.
func PercentChange(previous, current float64) float64 {
	if previous > 0 {
		return (current - previous) / previous * 100
	}
	if current > 0 {
		return 100
	}
	return 0
}
