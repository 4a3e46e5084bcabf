package utils_test

import (
	"testing"

	"reelview/utils"
)

func TestFormatPlaybackClock(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{90, "1:30"},
		{1200, "20:00"},
		{3000, "50:00"},
		{3661, "1:01:01"},
		{-5, "0:00"},
	}

	for _, tc := range cases {
		if got := utils.FormatPlaybackClock(tc.seconds); got != tc.want {
			t.Errorf("FormatPlaybackClock(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatResumeOffer(t *testing.T) {
	if got := utils.FormatResumeOffer(1200, 3000); got != "20:00 of 50:00" {
		t.Fatalf("unexpected resume offer label %q", got)
	}
}
