// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package timeaxis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/NVIDIA/data-checker/pkg/errors"
)

// offset is one step of a frequency. Anchored offsets (month start, week
// on Sunday, ...) only land on specific dates.
type offset interface {
	onOffset(t time.Time) bool
	rollForward(t time.Time) time.Time
	add(t time.Time, n int) time.Time
}

type tick time.Duration

func (tick) onOffset(time.Time) bool            { return true }
func (tick) rollForward(t time.Time) time.Time  { return t }
func (d tick) add(t time.Time, n int) time.Time { return t.Add(time.Duration(n) * time.Duration(d)) }

type week time.Weekday

func (w week) onOffset(t time.Time) bool { return t.Weekday() == time.Weekday(w) }

func (w week) rollForward(t time.Time) time.Time {
	for t.Weekday() != time.Weekday(w) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func (week) add(t time.Time, n int) time.Time { return t.AddDate(0, 0, 7*n) }

// monthly covers month, quarter and year offsets: every period months
// starting from anchor, pinned to the first or last day of the month.
type monthly struct {
	period int
	anchor time.Month
	end    bool
}

func lastDay(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (m monthly) aligned(month time.Month) bool {
	d := (int(month) - int(m.anchor)) % m.period
	return d == 0
}

func (m monthly) pin(year int, month time.Month, clock time.Time) time.Time {
	first := time.Date(year, month, 1, clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), time.UTC)
	if m.end {
		return first.AddDate(0, 0, lastDay(first.Year(), first.Month())-1)
	}
	return first
}

func (m monthly) onOffset(t time.Time) bool {
	if !m.aligned(t.Month()) {
		return false
	}
	if m.end {
		return t.Day() == lastDay(t.Year(), t.Month())
	}
	return t.Day() == 1
}

func (m monthly) rollForward(t time.Time) time.Time {
	for k := 0; k <= m.period; k++ {
		c := m.pin(t.Year(), t.Month()+time.Month(k), t)
		if m.aligned(c.Month()) && !c.Before(t) {
			return c
		}
	}
	return t
}

func (m monthly) add(t time.Time, n int) time.Time {
	return m.pin(t.Year(), t.Month()+time.Month(n*m.period), t)
}

var freqPattern = regexp.MustCompile(`^\s*(\d*)\s*([A-Za-z]+)(?:-([A-Za-z]{3}))?\s*$`)

var months = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March, "APR": time.April,
	"MAY": time.May, "JUN": time.June, "JUL": time.July, "AUG": time.August,
	"SEP": time.September, "OCT": time.October, "NOV": time.November, "DEC": time.December,
}

var weekdays = map[string]time.Weekday{
	"SUN": time.Sunday, "MON": time.Monday, "TUE": time.Tuesday, "WED": time.Wednesday,
	"THU": time.Thursday, "FRI": time.Friday, "SAT": time.Saturday,
}

var ticks = map[string]time.Duration{
	"N": time.Nanosecond, "ns": time.Nanosecond,
	"U": time.Microsecond, "us": time.Microsecond,
	"L": time.Millisecond, "ms": time.Millisecond,
	"S": time.Second, "s": time.Second,
	"T": time.Minute, "min": time.Minute,
	"H": time.Hour, "h": time.Hour,
	"D": 24 * time.Hour,
}

// Frequency is a multiple of an offset, e.g. "3h" or "1MS".
type Frequency struct {
	text string
	n    int
	off  offset
}

// String returns the alias the frequency was parsed from.
func (f Frequency) String() string {
	return f.text
}

// ParseFrequency parses a pandas style frequency alias.
func ParseFrequency(s string) (Frequency, error) {
	m := freqPattern.FindStringSubmatch(s)
	if m == nil {
		return Frequency{}, invalidFrequency(s, "unrecognized alias")
	}

	n := 1
	if m[1] != "" {
		v, err := strconv.Atoi(m[1])
		if err != nil || v <= 0 {
			return Frequency{}, invalidFrequency(s, "multiplier must be positive")
		}
		n = v
	}

	name, suffix := m[2], strings.ToUpper(m[3])
	f := Frequency{text: strings.TrimSpace(s), n: n}

	if d, ok := ticks[name]; ok && suffix == "" {
		f.off = tick(d)
		return f, nil
	}

	monthAnchor := func(def time.Month) (time.Month, error) {
		if suffix == "" {
			return def, nil
		}
		mo, ok := months[suffix]
		if !ok {
			return 0, invalidFrequency(s, "unknown month anchor "+suffix)
		}
		return mo, nil
	}

	var err error
	var anchor time.Month
	switch name {
	case "W":
		wd := time.Sunday
		if suffix != "" {
			var ok bool
			if wd, ok = weekdays[suffix]; !ok {
				return Frequency{}, invalidFrequency(s, "unknown weekday anchor "+suffix)
			}
		}
		f.off = week(wd)
	case "MS", "M", "ME":
		if suffix != "" {
			return Frequency{}, invalidFrequency(s, "monthly offsets take no anchor")
		}
		f.off = monthly{period: 1, anchor: time.January, end: name != "MS"}
	case "QS":
		anchor, err = monthAnchor(time.January)
		f.off = monthly{period: 3, anchor: anchor}
	case "Q", "QE":
		anchor, err = monthAnchor(time.December)
		f.off = monthly{period: 3, anchor: anchor, end: true}
	case "YS", "AS":
		anchor, err = monthAnchor(time.January)
		f.off = monthly{period: 12, anchor: anchor}
	case "Y", "YE", "A":
		anchor, err = monthAnchor(time.December)
		f.off = monthly{period: 12, anchor: anchor, end: true}
	default:
		return Frequency{}, invalidFrequency(s, "unrecognized alias")
	}
	if err != nil {
		return Frequency{}, err
	}
	return f, nil
}

func invalidFrequency(s, reason string) error {
	return errors.NewWithContext(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("invalid frequency %q: %s", s, reason), map[string]any{"frequency": s})
}

// Range returns every timestamp between start and end (inclusive) on the
// frequency. A start that is not on an anchored offset is rolled forward.
func (f Frequency) Range(start, end time.Time) []time.Time {
	if f.off == nil {
		return nil
	}
	t := start
	if !f.off.onOffset(t) {
		t = f.off.rollForward(t)
	}
	var out []time.Time
	for !t.After(end) {
		out = append(out, t)
		next := f.off.add(t, f.n)
		if !next.After(t) {
			break
		}
		t = next
	}
	return out
}
