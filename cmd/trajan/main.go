/*
 * main.go, part of trajan.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/rmera/trajan/chemplot"
	"github.com/rmera/trajan/histo"
	"github.com/rmera/trajan/internal/log"
	"github.com/rmera/trajan/report"
	"github.com/rmera/trajan/search"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: trajan run.toml")
		os.Exit(2)
	}
	cfg, err := ReadConfig(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := log.Init(cfg.Output.Debug, cfg.Output.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := runMain(ctx, cfg); err != nil {
		log.Get().Errorf("%s", err)
		log.Sync()
		os.Exit(1)
	}
}

func runMain(ctx context.Context, cfg *Config) error {
	logger := log.Get()
	S, err := openStream(cfg.Trajectory, logger)
	if err != nil {
		return err
	}
	logger.Infof("Opened %s trajectory %s: %d atoms, %d frames", S.Format, S.Path, S.Topology().Len(), S.Len())
	hb, err := hbondConfig(cfg.Engine)
	if err != nil {
		return err
	}
	E, err := search.NewEngine(cfg.DispatchOptions(), hb, logger)
	if err != nil {
		return err
	}
	defer E.Close()
	T, err := runSearch(ctx, cfg, E, S)
	if errors.Is(err, search.ErrCancelled) {
		return fmt.Errorf("interrupted, no results written")
	}
	if errors.Is(err, search.ErrNothingSignificant) {
		logger.Warnf("Nothing significant found, try relaxing the search criteria")
	} else if err != nil {
		return err
	}
	if cfg.Output.Path != "" {
		if err := report.WriteFile(cfg.Output.Path, T, cfg.Output.Format); err != nil {
			return err
		}
		logger.Infof("Results written to %s", cfg.Output.Path)
	} else if err := report.Write(os.Stdout, T, cfg.Output.Format); err != nil {
		return err
	}
	if T.ValidRows() == 0 {
		return nil
	}
	values := T.Column(0)
	fmt.Fprintf(os.Stderr, "%s search over %d frames (%d failed), %s:\n%s", T.Tool, T.Frames, T.FailedFrames, T.Columns[0], histo.Summarize(values, cfg.Output.Bins))
	if cfg.Output.Plot != "" {
		if err := chemplot.BarPlot(T, 0, "", cfg.Output.Plot); err != nil {
			return err
		}
		logger.Infof("Plot written to %s", cfg.Output.Plot)
	}
	return nil
}
