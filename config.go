package main

// Window and overlay constants for the interactive viewer. Effect settings live
// in internal/config so the snapshot exporter shares them.
const (
	windowTitle     = "tunnel"
	minBands        = 1
	maxBands        = 64
	bandStep        = 1
	debugLineFormat = "FPS: %.1f  TPS: %.1f\nBackend: %s  Bands: %d (+/-)\nRender: %.2f ms  Phase: %.2f\nBob: %v (B)  Paused: %v (P)\nClock: %s (C)"
)
