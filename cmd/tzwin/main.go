// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"os"

	"cloudeng.io/cmdutil"
	"cloudeng.io/cmdutil/subcmd"
)

const cmdSpec = `name: tzwin
summary: tzwin is a command line tool for inspecting Windows style time zone data and the transitions it describes
commands:
  - name: zones
    summary: query the zones available from the configured source
    commands:
      - name: list
        summary: list the available zones
      - name: show
        summary: display the transition rules for the specified zones
        arguments:
          - <zone>...
      - name: resolve
        summary: display the offset in effect, and the adjacent transitions, for the specified zones
        arguments:
          - <zone>...
      - name: transitions
        summary: display all of the transitions for a zone within a date range
        arguments:
          - <zone>
      - name: system
        summary: display the zone that the system is configured to use

  - name: db
    summary: create and export zone databases
    commands:
      - name: import
        summary: |
          import a yaml, toml or snapshot document into the registry hive
          stored in the specified sqlite database
        arguments:
          - <document> - the document to import
          - <hive> - the sqlite database to import into
      - name: export
        summary: |
          export the zones from the configured source, the format is
          determined by the file extension: .yaml, .yml, .toml or
          anything else for a snapshot
        arguments:
          - <filename>
      - name: watch
        summary: periodically reload the configured source and report the zones that have changed

  - name: config
    summary: query/inspect the configuration file
    commands:
      - name: display

  - name: logs
    summary: query/inspect the log files
    commands:
      - name: summary
        arguments:
          - <log-files>...
`

func cli() *subcmd.CommandSetYAML {
	cmd := subcmd.MustFromYAML(cmdSpec)

	zones := &Zones{out: os.Stdout}
	cmd.Set("zones", "list").MustRunner(zones.List, &ZonesListFlags{})
	cmd.Set("zones", "show").MustRunner(zones.Show, &ZonesFlags{})
	cmd.Set("zones", "resolve").MustRunner(zones.Resolve, &ResolveFlags{})
	cmd.Set("zones", "transitions").MustRunner(zones.Transitions, &TransitionsFlags{})
	cmd.Set("zones", "system").MustRunner(zones.System, &ZonesFlags{})

	db := &DB{out: os.Stdout}
	cmd.Set("db", "import").MustRunner(db.Import, &ImportFlags{})
	cmd.Set("db", "export").MustRunner(db.Export, &ExportFlags{})
	cmd.Set("db", "watch").MustRunner(db.Watch, &WatchFlags{})

	config := &Config{out: os.Stdout}
	cmd.Set("config", "display").MustRunner(config.Display, &ConfigFlags{})

	log := &Log{out: os.Stdout}
	cmd.Set("logs", "summary").MustRunner(log.Summary, &LogSummaryFlags{})
	return cmd
}

var errInterrupt = errors.New("interrupt")

func main() {
	ctx := context.Background()
	ctx, cancel := context.WithCancelCause(ctx)
	cmdutil.HandleSignals(func() { cancel(errInterrupt) }, os.Interrupt)
	err := cli().Dispatch(ctx)
	if context.Cause(ctx) == errInterrupt {
		cmdutil.Exit("%v", errInterrupt)
	}
	if err != nil {
		cmdutil.Exit("%v", err)
	}
}
