//go:build !race

package moderation

// raceDetectorEnabled relaxes latency assertions in tests when the race
// detector is off.
const raceDetectorEnabled = false
