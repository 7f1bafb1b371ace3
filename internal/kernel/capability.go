package kernel

import (
	"os"
	"strings"
	"unsafe"
)

// Tier represents a family of byte kernels.
type Tier uint8

const (
	// Generic represents plain byte-at-a-time loops.
	Generic Tier = iota
	// Word represents 64-bit word-at-a-time loops (SWAR).
	Word
	// Bulk represents the Go runtime's vectorized copy and search paths.
	Bulk
)

// String returns the string representation of a Tier.
func (t Tier) String() string {
	switch t {
	case Generic:
		return "generic"
	case Word:
		return "word"
	case Bulk:
		return "bulk"
	default:
		return "unknown"
	}
}

// ParseTier parses a string into a Tier value.
func ParseTier(s string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return Generic, true
	case "word":
		return Word, true
	case "bulk":
		return Bulk, true
	default:
		return Generic, false
	}
}

// EnvOverride names the environment variable that forces a tier.
const EnvOverride = "MEMSTR_KERNEL"

// Package-level state, initialized once at package init.
var (
	// activeTier is the selected kernel family.
	activeTier Tier

	// hasOverride is true if MEMSTR_KERNEL selected the tier.
	hasOverride bool

	// CPU feature flags (set by platform-specific init)
	hasAVX2  bool // x86-64 AVX2
	hasERMS  bool // x86-64 enhanced REP MOVSB/STOSB
	hasASIMD bool // ARM64 NEON
)

// wordCapable reports whether uintptr is wide enough for 64-bit word kernels.
const wordCapable = unsafe.Sizeof(uintptr(0)) == 8

// initCapabilities is called from platform-specific init functions
// after CPU features are detected.
func initCapabilities() {
	if override := os.Getenv(EnvOverride); override != "" {
		if t, ok := ParseTier(override); ok && Available(t) {
			hasOverride = true
			install(t)
			return
		}
		// Unknown or unavailable override - fall through to auto-detection
	}

	install(selectBestTier())
}

// Available reports whether a tier can run on this CPU.
func Available(t Tier) bool {
	switch t {
	case Generic:
		return true
	case Word:
		return wordCapable
	case Bulk:
		return hasAVX2 || hasERMS || hasASIMD
	default:
		return false
	}
}

// selectBestTier chooses the fastest tier for the current platform.
func selectBestTier() Tier {
	if Available(Bulk) {
		return Bulk
	}
	if Available(Word) {
		return Word
	}
	return Generic
}

// Select switches the active tier. It reports false and keeps the
// current tier if t is not available.
//
// Select is not synchronized with running kernels. Call it from init
// code or tests only.
func Select(t Tier) bool {
	if !Available(t) {
		return false
	}
	install(t)
	return true
}

// ActiveTier returns the currently active tier.
func ActiveTier() Tier {
	return activeTier
}

// IsOverridden returns true if MEMSTR_KERNEL selected the tier.
func IsOverridden() bool {
	return hasOverride
}

// HasAVX2 returns true if x86-64 AVX2 is available.
func HasAVX2() bool {
	return hasAVX2
}

// HasERMS returns true if x86-64 enhanced REP MOVSB is available.
func HasERMS() bool {
	return hasERMS
}

// HasASIMD returns true if ARM64 NEON is available.
func HasASIMD() bool {
	return hasASIMD
}
