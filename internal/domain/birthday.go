package domain

import (
	"fmt"
	"time"
)

// UpcomingBirthdayDays is the length of the upcoming-birthday window after today.
const UpcomingBirthdayDays = 7

// MonthDay is a calendar day without a year.
type MonthDay struct {
	Month time.Month
	Day   int
}

// String formats the day as MM-DD.
func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

// BirthdayWindow returns the month/day pairs from today through today+span
// inclusive, in calendar order. The window may wrap past December 31.
//
// A February 29 birthday is celebrated on February 28 in common years, so
// when the window contains February 28 of a common year it also contains
// February 29.
func BirthdayWindow(today time.Time, span int) []MonthDay {
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	days := make([]MonthDay, 0, span+2)
	for i := 0; i <= span; i++ {
		day := start.AddDate(0, 0, i)
		days = append(days, MonthDay{Month: day.Month(), Day: day.Day()})
		if day.Month() == time.February && day.Day() == 28 && !isLeapYear(day.Year()) {
			days = append(days, MonthDay{Month: time.February, Day: 29})
		}
	}
	return days
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
