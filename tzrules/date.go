// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tzrules

import "fmt"

// JulianDayForEpoch is the Julian day number of 1970-01-01.
const JulianDayForEpoch = 2440588

// Date is a proleptic Gregorian calendar date using astronomical year
// numbering, ie. there is a year 0. The zero value is not a valid date.
type Date struct {
	Year  int
	Month int
	Day   int
}

// TimeOfDay is a wall clock time with millisecond precision.
type TimeOfDay struct {
	Hour        int
	Minute      int
	Second      int
	Millisecond int
}

func (t TimeOfDay) IsValid() bool {
	return t.Hour >= 0 && t.Hour < 24 &&
		t.Minute >= 0 && t.Minute < 60 &&
		t.Second >= 0 && t.Second < 60 &&
		t.Millisecond >= 0 && t.Millisecond < 1000
}

// MillisSinceMidnight returns the number of milliseconds since midnight.
func (t TimeOfDay) MillisSinceMidnight() int64 {
	return int64(((t.Hour*60+t.Minute)*60+t.Second)*1000 + t.Millisecond)
}

func (t TimeOfDay) String() string {
	if t.Millisecond != 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hour, t.Minute, t.Second, t.Millisecond)
	}
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in month of year.
func DaysInMonth(year, month int) int {
	switch month {
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	}
	return 31
}

func (d Date) IsValid() bool {
	return d.Month >= 1 && d.Month <= 12 && d.Day >= 1 && d.Day <= DaysInMonth(d.Year, d.Month)
}

func (d Date) String() string {
	if !d.IsValid() {
		return "invalid-date"
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// JulianDay returns the Julian day number of d.
func (d Date) JulianDay() int64 {
	y, m := int64(d.Year), int64(d.Month)
	a := floorDiv(14-m, 12)
	y = y + 4800 - a
	m = m + 12*a - 3
	return int64(d.Day) + floorDiv(153*m+2, 5) + 365*y +
		floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400) - 32045
}

// DateFromJulianDay is the inverse of Date.JulianDay.
func DateFromJulianDay(jd int64) Date {
	a := jd + 32044
	b := floorDiv(4*a+3, 146097)
	c := a - floorDiv(146097*b, 4)
	d := floorDiv(4*c+3, 1461)
	e := c - floorDiv(1461*d, 4)
	m := floorDiv(5*e+2, 153)
	return Date{
		Year:  int(100*b + d - 4800 + floorDiv(m, 10)),
		Month: int(m + 3 - 12*floorDiv(m, 10)),
		Day:   int(e - floorDiv(153*m+2, 5) + 1),
	}
}

// DayOfWeek returns the ISO day of the week of d.
func (d Date) DayOfWeek() Weekday {
	jd := d.JulianDay()
	return Weekday(jd-7*floorDiv(jd, 7)) + 1
}

// AddDays returns d moved by n days.
func (d Date) AddDays(n int) Date {
	return DateFromJulianDay(d.JulianDay() + int64(n))
}

// MillisToDate returns the UTC date containing ms milliseconds since
// the Unix epoch.
func MillisToDate(ms int64) Date {
	return DateFromJulianDay(JulianDayForEpoch + floorDiv(ms, MillisPerDay))
}

// TimeToMillis returns the milliseconds since the Unix epoch for date and
// tod interpreted as UTC. Instants outside of [MinMillis, MaxMillis] are
// clamped to the nearest bound.
func TimeToMillis(date Date, tod TimeOfDay) int64 {
	days, ms := date.JulianDay()-JulianDayForEpoch, tod.MillisSinceMidnight()
	if days < 0 {
		// Count back from the end of the day so that the partially
		// representable day containing MinMillis does not overflow.
		days++
		ms -= MillisPerDay
	}
	return addMillis(daysToMillis(days), ms)
}

const (
	minDays = MinMillis / MillisPerDay
	maxDays = MaxMillis / MillisPerDay
)

func daysToMillis(days int64) int64 {
	switch {
	case days < minDays:
		return MinMillis
	case days > maxDays:
		return MaxMillis
	}
	return days * MillisPerDay
}

// addMillis returns ms+delta clamped to [MinMillis, MaxMillis]. A clamped
// ms stays clamped.
func addMillis(ms, delta int64) int64 {
	if ms == MinMillis || ms == MaxMillis {
		return ms
	}
	sum := ms + delta
	switch {
	case delta > 0 && sum < ms:
		return MaxMillis
	case delta < 0 && sum > ms, sum < MinMillis:
		return MinMillis
	}
	return sum
}

// ResolveDate returns the local date specified by spec for year. It
// returns false if spec has no month or does not name a valid date. An
// explicit year in spec takes precedence over year.
func ResolveDate(spec DaySpec, year int) (Date, bool) {
	if !spec.HasDate() || spec.Month < 1 || spec.Month > 12 {
		return Date{}, false
	}
	if !spec.Recurring() || spec.Occurrence == AbsoluteDate {
		y := year
		if !spec.Recurring() {
			y = spec.Year
		}
		d := Date{Year: y, Month: spec.Month, Day: spec.Day}
		return d, d.IsValid()
	}
	if spec.Occurrence < 1 || spec.Occurrence > LastOccurrence {
		return Date{}, false
	}
	dow := spec.DayOfWeek
	if dow == AnyWeekday {
		dow = Sunday
	}
	if dow < Monday || dow > Sunday {
		return Date{}, false
	}
	// Start from the matching weekday in the week before the 1st of the
	// month, then step forward by whole weeks.
	date := Date{Year: year, Month: spec.Month, Day: 1}
	startDow := date.DayOfWeek()
	if startDow <= dow {
		date = date.AddDays(int(dow - startDow - 7))
	} else {
		date = date.AddDays(int(dow - startDow))
	}
	date = date.AddDays(int(spec.Occurrence) * 7)
	for date.Month != spec.Month {
		date = date.AddDays(-7)
	}
	return date, true
}
