package console

import "fmt"

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// GB converts a byte count to gibibytes.
func GB(b int64) float64 {
	return float64(b) / gib
}

// MB converts a byte count to mebibytes.
func MB(b int64) float64 {
	return float64(b) / mib
}

// KB converts a byte count to kibibytes.
func KB(b int64) float64 {
	return float64(b) / kib
}

// FormatSize renders sizes above 1 GB as "1.50 GB" and everything else as
// whole megabytes.
func FormatSize(b int64) string {
	if gb := GB(b); gb > 1 {
		return fmt.Sprintf("%.2f GB", gb)
	}
	return fmt.Sprintf("%.0f MB", MB(b))
}

// KBps renders a byte rate in KB/s.
func KBps(b int64) string {
	return fmt.Sprintf("%.2f KB/s", KB(b))
}

// MBps renders a byte rate in MB/s.
func MBps(b int64) string {
	return fmt.Sprintf("%.2f MB/s", MB(b))
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
