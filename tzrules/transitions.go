// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tzrules

// TransitionPair holds the UTC instants, in milliseconds since the Unix
// epoch, of the two transitions specified by a rule for a single year.
// Either may be InvalidMillis.
type TransitionPair struct {
	IntoStandard int64
	IntoDaylight int64
}

// transitionForYear returns the UTC instant for the local date and time
// specified by spec in year, where bias (minutes) is the bias in effect
// on the wall clock that displays that local time.
func transitionForYear(spec DaySpec, year, bias int) int64 {
	date, ok := ResolveDate(spec, year)
	if !ok {
		return InvalidMillis
	}
	tod := spec.TimeOfDay()
	if !tod.IsValid() {
		return InvalidMillis
	}
	return addMillis(TimeToMillis(date, tod), int64(bias)*MillisPerMinute)
}

// YearTransitions returns the transitions specified by rule for year.
// The switch to standard time is expressed in the wall clock time that
// is in effect before it, ie. daylight time, and the switch to daylight
// time in standard time.
func YearTransitions(rule TransitionRule, year int) TransitionPair {
	return TransitionPair{
		IntoStandard: transitionForYear(rule.StandardRule, year, rule.StandardBias+rule.DaylightBias),
		IntoDaylight: transitionForYear(rule.DaylightRule, year, rule.StandardBias),
	}
}

// transition is a single transition instant and the time type that it
// switches to.
type transition struct {
	at       int64
	daylight bool
}

func (t transition) valid() bool {
	return t.at != InvalidMillis
}

// inRange reports whether t is a representable instant rather than one
// clamped to MinMillis or MaxMillis.
func (t transition) inRange() bool {
	return t.at > MinMillis && t.at < MaxMillis
}

// reached reports whether t has taken effect by ms. A transition clamped
// to MinMillis precedes every instant and one clamped to MaxMillis
// follows every instant.
func (t transition) reached(ms int64) bool {
	return t.valid() && t.at != MaxMillis && ms >= t.at
}

// ordered returns the pair's transitions in chronological order. Invalid
// transitions sort first.
func (tp TransitionPair) ordered() (first, second transition) {
	std := transition{at: tp.IntoStandard}
	dst := transition{at: tp.IntoDaylight, daylight: true}
	if std.at < dst.at {
		return std, dst
	}
	return dst, std
}

// Ordered returns the two instants of the pair in chronological order.
func (tp TransitionPair) Ordered() (first, second int64) {
	f, s := tp.ordered()
	return f.at, s.at
}
