package garch

// SettlementAverages reduces a simulated price matrix to one settlement value
// per path: the arithmetic mean of the trailing window ticks. Contracts settle
// against this moving average, not the raw terminal price, which matches the
// exchange settlement rule and damps single-tick noise.
//
// The window covers the last min(window, len(prices)) rows.
func SettlementAverages(prices [][]float64, window int) []float64 {
	if len(prices) == 0 {
		return nil
	}
	paths := len(prices[0])
	if window <= 0 || window > len(prices) {
		window = len(prices)
	}
	start := len(prices) - window

	out := make([]float64, paths)
	for t := start; t < len(prices); t++ {
		row := prices[t]
		for j := 0; j < paths; j++ {
			out[j] += row[j]
		}
	}
	inv := 1.0 / float64(window)
	for j := range out {
		out[j] *= inv
	}
	return out
}
