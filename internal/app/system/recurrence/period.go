// Package recurrence decides when recurring evaluation campaigns fire and
// which calendar window a new campaign covers.
//
// All calendar arithmetic happens in KST (fixed UTC+9). The scheduler runs
// from a UTC clock, so "today" is the KST date of the invocation instant.
package recurrence

import (
	"time"
)

// DateLayout is the YYYY-MM-DD layout used for every stored date string.
const DateLayout = "2006-01-02"

// KST is the fixed UTC+9 zone campaigns are scheduled in.
var KST = time.FixedZone("KST", 9*60*60)

// Period is the window a campaign launched at some instant would cover.
// CurrentDay/Month/Year are the KST calendar fields of the start date.
type Period struct {
	StartDate    string
	EndDate      string
	CurrentDay   int
	CurrentMonth int
	CurrentYear  int
}

// CalculateCampaignPeriod returns the KST date of nowUTC as the start date
// and an inclusive end date durationDays later (start plus durationDays-1).
// durationDays below 1 is treated as 1.
func CalculateCampaignPeriod(nowUTC time.Time, durationDays int) Period {
	if durationDays < 1 {
		durationDays = 1
	}
	local := nowUTC.In(KST)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, KST)
	end := start.AddDate(0, 0, durationDays-1)

	return Period{
		StartDate:    start.Format(DateLayout),
		EndDate:      end.Format(DateLayout),
		CurrentDay:   start.Day(),
		CurrentMonth: int(start.Month()),
		CurrentYear:  start.Year(),
	}
}

// ParseDate parses a stored date as KST midnight. Values longer than a
// date (e.g. RFC 3339 timestamps) are read by their leading YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	return time.ParseInLocation(DateLayout, s, KST)
}
