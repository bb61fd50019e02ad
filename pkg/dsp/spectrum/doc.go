// ABOUTME: Spectrum package for measuring how a preset reshaped a track
// ABOUTME: Reports the share of power per frequency band
// Package spectrum measures spectral power distribution.
//
// Example:
//
//	b := spectrum.SplitBalance(buf, 100)
//	fmt.Printf("low %.0f%% high %.0f%%\n", b.Low*100, b.High*100)
package spectrum
