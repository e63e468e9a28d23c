// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tzrules_test

import (
	"testing"
	"time"

	"github.com/cosnicolaou/wintz/tzrules"
)

func TestJulianDay(t *testing.T) {
	for i, tc := range []struct {
		date tzrules.Date
		jd   int64
		dow  tzrules.Weekday
	}{
		{tzrules.Date{Year: 1970, Month: 1, Day: 1}, tzrules.JulianDayForEpoch, tzrules.Thursday},
		{tzrules.Date{Year: 2000, Month: 1, Day: 1}, 2451545, tzrules.Saturday},
		{tzrules.Date{Year: 2023, Month: 3, Day: 12}, 2460016, tzrules.Sunday},
		{tzrules.Date{Year: -4713, Month: 11, Day: 24}, 0, tzrules.Monday},
		{tzrules.Date{Year: -4713, Month: 11, Day: 23}, -1, tzrules.Sunday},
		{tzrules.Date{Year: 0, Month: 2, Day: 29}, 1721119, tzrules.Tuesday},
	} {
		if got, want := tc.date.JulianDay(), tc.jd; got != want {
			t.Errorf("%v: %v: got %v, want %v", i, tc.date, got, want)
		}
		if got, want := tzrules.DateFromJulianDay(tc.jd), tc.date; got != want {
			t.Errorf("%v: got %v, want %v", i, got, want)
		}
		if got, want := tc.date.DayOfWeek(), tc.dow; got != want {
			t.Errorf("%v: %v: got %v, want %v", i, tc.date, got, want)
		}
	}
}

func TestJulianDayRoundTrip(t *testing.T) {
	for _, start := range []int64{-1_000_000, 0, tzrules.JulianDayForEpoch - 400*366} {
		prev := tzrules.DateFromJulianDay(start - 1)
		for jd := start; jd < start+800*366; jd++ {
			d := tzrules.DateFromJulianDay(jd)
			if !d.IsValid() {
				t.Fatalf("%v: invalid date %#v", jd, d)
			}
			if got, want := d.JulianDay(), jd; got != want {
				t.Fatalf("%v: got %v, want %v", d, got, want)
			}
			if got, want := prev.AddDays(1), d; got != want {
				t.Fatalf("got %v, want %v", got, want)
			}
			prev = d
		}
	}
}

func TestMillis(t *testing.T) {
	for i, tc := range []struct {
		ms   int64
		date tzrules.Date
	}{
		{0, tzrules.Date{Year: 1970, Month: 1, Day: 1}},
		{-1, tzrules.Date{Year: 1969, Month: 12, Day: 31}},
		{tzrules.MillisPerDay - 1, tzrules.Date{Year: 1970, Month: 1, Day: 1}},
		{tzrules.MillisPerDay, tzrules.Date{Year: 1970, Month: 1, Day: 2}},
		{time.Date(2023, 7, 4, 23, 59, 0, 0, time.UTC).UnixMilli(), tzrules.Date{Year: 2023, Month: 7, Day: 4}},
		{time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), tzrules.Date{Year: 1601, Month: 1, Day: 1}},
	} {
		if got, want := tzrules.MillisToDate(tc.ms), tc.date; got != want {
			t.Errorf("%v: got %v, want %v", i, got, want)
		}
	}

	for _, tm := range []time.Time{
		time.Date(2023, 3, 12, 7, 0, 0, 0, time.UTC),
		time.Date(1900, 2, 28, 23, 59, 59, 999000000, time.UTC),
		time.Date(-200, 12, 31, 12, 30, 15, 0, time.UTC),
	} {
		date := tzrules.Date{Year: tm.Year(), Month: int(tm.Month()), Day: tm.Day()}
		tod := tzrules.TimeOfDay{Hour: tm.Hour(), Minute: tm.Minute(), Second: tm.Second(), Millisecond: tm.Nanosecond() / 1e6}
		if got, want := tzrules.TimeToMillis(date, tod), tm.UnixMilli(); got != want {
			t.Errorf("%v: got %v, want %v", tm, got, want)
		}
	}
}

func TestMillisAtBounds(t *testing.T) {
	lo, hi := tzrules.MinYear+1, tzrules.MaxYear
	for i, tc := range []struct {
		date tzrules.Date
		tod  tzrules.TimeOfDay
		ms   int64
	}{
		{tzrules.Date{Year: tzrules.MinYear, Month: 6, Day: 1}, tzrules.TimeOfDay{}, tzrules.MinMillis},
		{tzrules.Date{Year: lo, Month: 1, Day: 1}, tzrules.TimeOfDay{}, tzrules.MinMillis},
		{tzrules.Date{Year: lo, Month: 5, Day: 16}, tzrules.TimeOfDay{Hour: 16, Minute: 47, Second: 4, Millisecond: 192}, tzrules.MinMillis},
		{tzrules.Date{Year: lo, Month: 5, Day: 16}, tzrules.TimeOfDay{Hour: 16, Minute: 47, Second: 4, Millisecond: 193}, tzrules.MinMillis},
		{tzrules.Date{Year: lo, Month: 5, Day: 16}, tzrules.TimeOfDay{Hour: 16, Minute: 47, Second: 4, Millisecond: 194}, tzrules.MinMillis + 1},
		{tzrules.Date{Year: hi, Month: 8, Day: 17}, tzrules.TimeOfDay{Hour: 7, Minute: 12, Second: 55, Millisecond: 806}, tzrules.MaxMillis - 1},
		{tzrules.Date{Year: hi, Month: 8, Day: 17}, tzrules.TimeOfDay{Hour: 7, Minute: 12, Second: 55, Millisecond: 807}, tzrules.MaxMillis},
		{tzrules.Date{Year: hi, Month: 8, Day: 17}, tzrules.TimeOfDay{Hour: 23}, tzrules.MaxMillis},
		{tzrules.Date{Year: hi, Month: 12, Day: 31}, tzrules.TimeOfDay{}, tzrules.MaxMillis},
	} {
		if got, want := tzrules.TimeToMillis(tc.date, tc.tod), tc.ms; got != want {
			t.Errorf("%v: %v %v: got %v, want %v", i, tc.date, tc.tod, got, want)
		}
	}

	// Milliseconds never decrease across the first and last years.
	for _, year := range []int{tzrules.MinYear, lo, hi} {
		prev := tzrules.TimeToMillis(tzrules.Date{Year: year, Month: 1, Day: 1}, tzrules.TimeOfDay{})
		for d := (tzrules.Date{Year: year, Month: 1, Day: 1}); d.Year == year; d = d.AddDays(1) {
			for _, tod := range []tzrules.TimeOfDay{{}, {Hour: 12}, {Hour: 23, Minute: 59, Second: 59, Millisecond: 999}} {
				ms := tzrules.TimeToMillis(d, tod)
				if ms < prev {
					t.Fatalf("%v %v: %v is earlier than %v", d, tod, ms, prev)
				}
				if ms == tzrules.InvalidMillis {
					t.Fatalf("%v %v: invalid", d, tod)
				}
				prev = ms
			}
		}
	}
	if got, want := tzrules.MillisToDate(tzrules.MinMillis), (tzrules.Date{Year: lo, Month: 5, Day: 16}); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := tzrules.MillisToDate(tzrules.MaxMillis), (tzrules.Date{Year: hi, Month: 8, Day: 17}); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolveDate(t *testing.T) {
	for i, tc := range []struct {
		spec tzrules.DaySpec
		year int
		date tzrules.Date
		ok   bool
	}{
		// second Sunday in March.
		{tzrules.DaySpec{Month: 3, DayOfWeek: tzrules.Sunday, Occurrence: 2}, 2023, tzrules.Date{Year: 2023, Month: 3, Day: 12}, true},
		{tzrules.DaySpec{Month: 3, DayOfWeek: tzrules.AnyWeekday, Occurrence: 2}, 2023, tzrules.Date{Year: 2023, Month: 3, Day: 12}, true},
		// first Sunday in November.
		{tzrules.DaySpec{Month: 11, DayOfWeek: tzrules.Sunday, Occurrence: 1}, 2023, tzrules.Date{Year: 2023, Month: 11, Day: 5}, true},
		// October 1st 2023 is a Sunday.
		{tzrules.DaySpec{Month: 10, DayOfWeek: tzrules.Sunday, Occurrence: 1}, 2023, tzrules.Date{Year: 2023, Month: 10, Day: 1}, true},
		{tzrules.DaySpec{Month: 10, DayOfWeek: tzrules.Sunday, Occurrence: tzrules.LastOccurrence}, 2023, tzrules.Date{Year: 2023, Month: 10, Day: 29}, true},
		{tzrules.DaySpec{Month: 2, DayOfWeek: tzrules.Sunday, Occurrence: tzrules.LastOccurrence}, 2023, tzrules.Date{Year: 2023, Month: 2, Day: 26}, true},
		// There is no fifth Friday in February 2023, so last is the 4th.
		{tzrules.DaySpec{Month: 2, DayOfWeek: tzrules.Friday, Occurrence: tzrules.LastOccurrence}, 2023, tzrules.Date{Year: 2023, Month: 2, Day: 24}, true},
		{tzrules.DaySpec{Month: 3, DayOfWeek: tzrules.Wednesday, Occurrence: tzrules.LastOccurrence}, 2023, tzrules.Date{Year: 2023, Month: 3, Day: 29}, true},
		{tzrules.DaySpec{Month: 3, DayOfWeek: tzrules.Wednesday, Occurrence: 1}, 2023, tzrules.Date{Year: 2023, Month: 3, Day: 1}, true},
		// absolute dates.
		{tzrules.DaySpec{Month: 6, Day: 21}, 2023, tzrules.Date{Year: 2023, Month: 6, Day: 21}, true},
		{tzrules.DaySpec{Month: 2, Day: 29}, 2024, tzrules.Date{Year: 2024, Month: 2, Day: 29}, true},
		{tzrules.DaySpec{Month: 2, Day: 29}, 2023, tzrules.Date{}, false},
		// explicit year takes precedence.
		{tzrules.DaySpec{Year: 2010, Month: 6, Day: 1}, 2023, tzrules.Date{Year: 2010, Month: 6, Day: 1}, true},
		// no month.
		{tzrules.DaySpec{}, 2023, tzrules.Date{}, false},
		{tzrules.DaySpec{Month: 13, Day: 1}, 2023, tzrules.Date{}, false},
	} {
		date, ok := tzrules.ResolveDate(tc.spec, tc.year)
		if got, want := ok, tc.ok; got != want {
			t.Errorf("%v: %v: got %v, want %v", i, tc.spec, got, want)
			continue
		}
		if !ok {
			continue
		}
		if got, want := date, tc.date; got != want {
			t.Errorf("%v: %v: got %v, want %v", i, tc.spec, got, want)
		}
	}
}

func TestResolveDateWeekdays(t *testing.T) {
	for year := 1990; year < 2040; year++ {
		for month := 1; month <= 12; month++ {
			for dow := tzrules.Monday; dow <= tzrules.Sunday; dow++ {
				prev := tzrules.Date{}
				for occ := tzrules.Occurrence(1); occ <= tzrules.LastOccurrence; occ++ {
					spec := tzrules.DaySpec{Month: month, DayOfWeek: dow, Occurrence: occ}
					date, ok := tzrules.ResolveDate(spec, year)
					if !ok {
						t.Fatalf("%v: %v: failed", year, spec)
					}
					if got, want := date.DayOfWeek(), dow; got != want {
						t.Fatalf("%v: %v: got %v, want %v", year, spec, got, want)
					}
					if got, want := date.Month, month; got != want {
						t.Fatalf("%v: %v: got %v, want %v", year, spec, got, want)
					}
					if occ < tzrules.LastOccurrence {
						if got, want := date.Day, int(occ-1)*7+1; got < want || got > want+6 {
							t.Fatalf("%v: %v: got %v, want %v..%v", year, spec, got, want, want+6)
						}
					} else if got, want := date.Day+7, tzrules.DaysInMonth(year, month); got <= want {
						t.Fatalf("%v: %v: %v is not the last %v", year, spec, date, dow)
					}
					if prev.IsValid() && date.JulianDay() < prev.JulianDay() {
						t.Fatalf("%v: %v: %v precedes %v", year, spec, date, prev)
					}
					prev = date
				}
			}
		}
	}
}
