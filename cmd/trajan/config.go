/*
 * config.go, part of trajan.
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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/rmera/trajan/cellstat"
	"github.com/rmera/trajan/dispatch"
	"github.com/rmera/trajan/report"
)

//Config is the run file of the trajan command. See the example in the package documentation.
type Config struct {
	Engine     EngineConfig     `toml:"engine"`
	Trajectory TrajectoryConfig `toml:"trajectory"`
	Search     SearchConfig     `toml:"search"`
	Output     OutputConfig     `toml:"output"`
}

//EngineConfig holds the options of the dispatcher and the hydrogen bond files.
type EngineConfig struct {
	Threads    int    `toml:"threads"`
	Priority   string `toml:"priority"`
	HBondParms string `toml:"hbond_parms"`
	HBondRes   string `toml:"hbond_res"`
}

//TrajectoryConfig describes the trajectory and the frames to use.
type TrajectoryConfig struct {
	Topology string `toml:"topology"`
	Format   string `toml:"format"`
	Path     string `toml:"path"`
	Forces   string `toml:"forces"`
	Start    int    `toml:"start"`
	Count    int    `toml:"count"`
}

//SearchConfig selects the tool and its parameters.
type SearchConfig struct {
	Tool              string   `toml:"tool"`
	Stat              string   `toml:"stat"`
	Atoms             []int    `toml:"atoms"`
	Residues          []int    `toml:"residues"`
	Chains            []string `toml:"chains"`
	AtomNames         []string `toml:"atom_names"`
	Torsions          [][]int  `toml:"torsions"`
	Backbone          bool     `toml:"backbone"`
	IgnoreSameResidue bool     `toml:"ignore_same_residue"`
	MinPercent        float64  `toml:"min_percent"`
	Cutoff            float64  `toml:"cutoff"`
	Group             bool     `toml:"group"`
}

//OutputConfig says where the results and the log go.
type OutputConfig struct {
	Path    string `toml:"path"`
	Format  string `toml:"format"`
	Plot    string `toml:"plot"`
	Bins    int    `toml:"bins"`
	Debug   bool   `toml:"debug"`
	LogFile string `toml:"log_file"`
}

const (
	toolDistance = "distance"
	toolTorsion  = "torsion"
	toolForce    = "force"
	toolHBond    = "hbond"
)

//ReadConfig reads and checks a run file.
func ReadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeConfig(f)
}

//DecodeConfig reads a run file from r, fills the defaults and checks it.
func DecodeConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := toml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("run file: %w", err)
	}
	if cfg.Search.Stat == "" {
		cfg.Search.Stat = "mean"
	}
	if cfg.Output.Bins <= 0 {
		cfg.Output.Bins = 10
	}
	if err := cfg.check(); err != nil {
		return nil, fmt.Errorf("run file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) check() error {
	t := &c.Trajectory
	if t.Path == "" {
		return fmt.Errorf("trajectory.path is required")
	}
	if t.Format == "" {
		t.Format = formatFromName(t.Path)
	}
	switch t.Format {
	case "pdb":
	case "stf", "dcd":
		if t.Topology == "" {
			return fmt.Errorf("a %s trajectory needs trajectory.topology", t.Format)
		}
	default:
		return fmt.Errorf("unknown trajectory format %q", t.Format)
	}
	if t.Start < 0 || t.Count < 0 {
		return fmt.Errorf("trajectory.start and trajectory.count can't be negative")
	}
	s := &c.Search
	s.Tool = strings.ToLower(s.Tool)
	switch s.Tool {
	case toolDistance, toolForce:
		if len(s.Atoms) == 0 && len(s.Residues) == 0 {
			return fmt.Errorf("the %s search needs search.atoms or search.residues", s.Tool)
		}
	case toolTorsion:
		if len(s.Torsions) == 0 && !s.Backbone {
			return fmt.Errorf("the torsion search needs search.torsions or search.backbone")
		}
		for i, tor := range s.Torsions {
			if len(tor) != 4 {
				return fmt.Errorf("torsion %d has %d atoms instead of 4", i, len(tor))
			}
		}
	case toolHBond:
		if s.MinPercent < 0 || s.MinPercent > 100 {
			return fmt.Errorf("search.min_percent must be between 0 and 100")
		}
	default:
		return fmt.Errorf("unknown tool %q", s.Tool)
	}
	if s.Tool != toolHBond {
		if _, err := cellstat.ParseKind(s.Stat); err != nil {
			return err
		}
	}
	if _, err := c.priority(); err != nil {
		return err
	}
	if c.Output.Format == "" && c.Output.Path != "" {
		c.Output.Format = report.FormatFromName(c.Output.Path)
	}
	return nil
}

func (c *Config) priority() (dispatch.Priority, error) {
	switch strings.ToLower(c.Engine.Priority) {
	case "", "normal":
		return dispatch.Normal, nil
	case "yield":
		return dispatch.Yield, nil
	}
	return dispatch.Normal, fmt.Errorf("unknown priority %q", c.Engine.Priority)
}

//DispatchOptions returns the options for the engine's dispatcher.
func (c *Config) DispatchOptions() *dispatch.Options {
	O := dispatch.DefaultOptions()
	O.Threads(c.Engine.Threads)
	p, _ := c.priority()
	O.Priority(p)
	return O
}

//torsions returns the torsions of the run file as arrays.
func (c *Config) torsions() [][4]int {
	ret := make([][4]int, len(c.Search.Torsions))
	for i, t := range c.Search.Torsions {
		copy(ret[i][:], t)
	}
	return ret
}

func formatFromName(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasSuffix(name, ".pdb"):
		return "pdb"
	case strings.HasSuffix(name, ".dcd"):
		return "dcd"
	}
	return "stf"
}
