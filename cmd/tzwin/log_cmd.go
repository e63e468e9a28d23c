// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cosnicolaou/wintz/internal/logging"
)

type LogSummaryFlags struct {
	Failed bool   `subcmd:"failed,false,only display zones that failed to load"`
	Zone   string `subcmd:"zone,,display log info for the specific platform id"`
	TSV    bool   `subcmd:"tsv,false,print the summary in tab separated values"`
}

type Log struct {
	out io.Writer
}

func (l *Log) processLog(rd io.Reader, fv *LogSummaryFlags, summary *logging.Summary) error {
	sc := logging.NewScanner(rd)
	for le := range sc.Entries() {
		if le.Mod != "zonedb" {
			continue
		}
		if len(fv.Zone) > 0 && le.PlatformID != fv.Zone {
			continue
		}
		summary.Add(le)
	}
	return sc.Err()
}

func (l *Log) Summary(_ context.Context, flags any, args []string) error {
	fv := flags.(*LogSummaryFlags)
	summary := logging.NewSummary()
	if len(args) == 0 {
		if err := l.processLog(os.Stdin, fv, summary); err != nil {
			return err
		}
	}
	for _, arg := range args {
		f, err := os.Open(arg)
		if err != nil {
			return err
		}
		err = l.processLog(f, fv, summary)
		f.Close()
		if err != nil {
			return fmt.Errorf("%v: %w", arg, err)
		}
	}

	for _, ie := range summary.Initialized {
		fmt.Fprintf(l.out, "%v: initialized %v zones from %v in %v\n",
			ie.Time.Format("2006-01-02 15:04:05"), ie.NumZones, ie.Source, ie.Elapsed)
	}
	zones := summary.Zones()
	if fv.Failed {
		zones = summary.Failed()
	}
	tw := tableManager{}.LogSummary(zones)
	if fv.TSV {
		fmt.Fprintln(l.out, tw.RenderTSV())
	} else {
		fmt.Fprintln(l.out, tw.Render())
	}
	fmt.Fprintf(l.out, "loaded: %v, failed: %v, changed: %v, refreshed: %v\n",
		summary.Counts[logging.LogZoneLoaded],
		summary.Counts[logging.LogZoneFailed],
		summary.Counts[logging.LogZoneChanged],
		summary.Counts[logging.LogRefreshed])
	return nil
}
