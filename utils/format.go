package utils

import "fmt"

// FormatPlaybackClock renders seconds as m:ss or h:mm:ss for resume prompts.
func FormatPlaybackClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}

	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatResumeOffer renders the "20:00 of 50:00" label shown when offering
// to resume a partially watched title.
func FormatResumeOffer(timestamp, duration float64) string {
	return fmt.Sprintf("%s of %s", FormatPlaybackClock(timestamp), FormatPlaybackClock(duration))
}
