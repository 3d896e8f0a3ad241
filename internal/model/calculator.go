package model

import "math"

// CalculatePurchaseEstimate computes how many stock bars to buy for a given
// item list. It accounts for kerf per piece and an additional waste
// percentage factor on top of the theoretical minimum.
func CalculatePurchaseEstimate(items []Item, stockLength, kerfWidth, wastePercent, pricePerBar float64) PurchaseEstimate {
	var pieceLength, kerfAllowance float64
	for _, it := range items {
		pieceLength += it.Length * float64(it.Quantity)
		kerfAllowance += kerfWidth * float64(it.Quantity)
	}

	est := PurchaseEstimate{
		TotalPieceLength: pieceLength,
		KerfAllowance:    kerfAllowance,
		WastePercent:     wastePercent,
		PricePerBar:      pricePerBar,
		StockLength:      stockLength,
	}
	if stockLength <= 0 {
		return est
	}

	exact := (pieceLength + kerfAllowance) / stockLength
	minBars := int(math.Ceil(exact))

	wasteFactor := 1.0 + wastePercent/100.0
	withWaste := int(math.Ceil(exact * wasteFactor))
	if withWaste < minBars {
		withWaste = minBars
	}

	est.BarsNeededExact = exact
	est.BarsNeededMin = minBars
	est.BarsWithWaste = withWaste
	est.EstimatedCost = float64(withWaste) * pricePerBar
	return est
}
