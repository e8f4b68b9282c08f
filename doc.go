// Package main provides the entry point of aquamon, the telemetry service of
// an aquaponics rig. It stores sensor readings, serves the latest camera
// capture and keeps the operating thresholds of every sensor and actuator in
// a settings store seeded with defaults at startup.
package main
