package filterbank

// HzToBark converts frequency in Hz to the Bark scale.
// Traunmüller (1990): 26.81 / (1 + 1960/hz) - 0.53
func HzToBark(hz float64) float64 {
	return 26.81/(1.0+1960.0/hz) - 0.53
}

// BarkToHz is the exact inverse of HzToBark.
func BarkToHz(bark float64) float64 {
	return 1960.0 / (26.81/(bark+0.53) - 1.0)
}
