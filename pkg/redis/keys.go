package redis

import "fmt"

// Key construction helpers for the LDR reading store

// LightReadingsKey returns the key for calibrated light readings (sorted set)
// Pattern: light:readings:{location}
func LightReadingsKey(location string) string {
	return fmt.Sprintf("light:readings:%s", location)
}

// LightMetaKey returns the key for per-location reading metadata (hash)
// Pattern: light:meta:{location}
func LightMetaKey(location string) string {
	return fmt.Sprintf("light:meta:%s", location)
}

// LightReadingsPattern matches the reading keys of every location
const LightReadingsPattern = "light:readings:*"
