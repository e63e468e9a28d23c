// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"time"
)

type logEntry struct {
	Time        time.Time `json:"time"`
	Level       string    `json:"level"`
	Msg         string    `json:"msg"`
	Mod         string    `json:"mod"`
	Source      string    `json:"source"`
	PlatformID  string    `json:"platform-id"`
	Zone        string    `json:"zone"`
	Territory   string    `json:"territory"`
	NumZones    int       `json:"#zones"`
	NumRules    int       `json:"#rules"`
	NumChanged  int       `json:"#changed"`
	Fingerprint string    `json:"fingerprint"`
	Previous    string    `json:"previous"`
	Elapsed     int64     `json:"elapsed"`
	Err         string    `json:"err"`
}

// Entry is a parsed log line.
type Entry struct {
	logEntry

	Elapsed  time.Duration
	Err      error
	LogEntry string // Original log line
}

func ParseLogLine(line string) (Entry, error) {
	var le Entry
	le.LogEntry = line
	if err := json.Unmarshal([]byte(line), &le.logEntry); err != nil {
		return le, err
	}
	le.Elapsed = time.Duration(le.logEntry.Elapsed)
	if e := le.logEntry.Err; e != "" {
		le.Err = errors.New(e)
	}
	return le, nil
}

type Scanner struct {
	sc  *bufio.Scanner
	err error
}

func NewScanner(rd io.Reader) *Scanner {
	return &Scanner{sc: bufio.NewScanner(rd)}
}

// Entries returns an iterator for over the Scanner's Entry's. Note
// that the iterator will stop if an error is encountered and that the
// Scanner's Err method should be checked after the iterator has completed.
func (ls *Scanner) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for {
			if !ls.sc.Scan() {
				ls.err = ls.sc.Err()
				return
			}
			line := ls.sc.Text()
			le, err := ParseLogLine(line)
			if err != nil {
				ls.err = err
				return
			}
			if !yield(le) {
				return
			}
		}
	}
}

func (ls *Scanner) Err() error {
	return ls.err
}
