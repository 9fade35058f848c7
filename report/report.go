/*
 * report.go, part of trajan.
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

//Package report writes the finalized results of a search as TSV, JSON or MessagePack.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

//NoData is written in text tables in place of the values of rows without a result.
const NoData = "no data"

//Row is one candidate of a search: its atoms and its values, if it has any.
type Row struct {
	Atoms  []int     `json:"atoms"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values,omitempty"`
	Valid  bool      `json:"valid"`
}

//Table holds the results of a search.
type Table struct {
	Tool         string   `json:"tool"`
	Stat         string   `json:"stat,omitempty"`
	Columns      []string `json:"columns"` //names of the values in each row
	Frames       int      `json:"frames"`
	FailedFrames int      `json:"failed_frames"`
	Rows         []Row    `json:"rows"`
}

//ValidRows returns the number of valid rows.
func (T *Table) ValidRows() int {
	n := 0
	for _, r := range T.Rows {
		if r.Valid {
			n++
		}
	}
	return n
}

//Column returns the values of column c of the valid rows.
func (T *Table) Column(c int) []float64 {
	ret := make([]float64, 0, len(T.Rows))
	for _, r := range T.Rows {
		if r.Valid && c < len(r.Values) {
			ret = append(ret, r.Values[c])
		}
	}
	return ret
}

//Formats supported by Write.
const (
	TSV     = "tsv"
	JSON    = "json"
	MsgPack = "msgpack"
)

//Write writes T to w in the given format.
func Write(w io.Writer, T *Table, format string) error {
	switch strings.ToLower(format) {
	case TSV, "":
		return WriteTSV(w, T)
	case JSON:
		return WriteJSON(w, T)
	case MsgPack:
		return WriteMsgPack(w, T)
	}
	return fmt.Errorf("Unknown output format %q", format)
}

//WriteFile writes T to the file name in the given format. If format is empty,
//it is taken from the file extension.
func WriteFile(name string, T *Table, format string) (err error) {
	if format == "" {
		format = FormatFromName(name)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if err2 := f.Close(); err == nil {
			err = err2
		}
	}()
	return Write(f, T, format)
}

//FormatFromName guesses the format from a file name. TSV is the default.
func FormatFromName(name string) string {
	switch {
	case strings.HasSuffix(name, ".json"):
		return JSON
	case strings.HasSuffix(name, ".msgpack"), strings.HasSuffix(name, ".mpk"):
		return MsgPack
	}
	return TSV
}

//WriteTSV writes T as tab separated values, with one commented header line with
//the run information, and a line with column names.
func WriteTSV(w io.Writer, T *Table) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# tool=%s stat=%s frames=%d failed_frames=%d\n", T.Tool, T.Stat, T.Frames, T.FailedFrames)
	natoms := 0
	for _, r := range T.Rows {
		if len(r.Atoms) > natoms {
			natoms = len(r.Atoms)
		}
	}
	var header []string
	for i := 0; i < natoms; i++ {
		header = append(header, fmt.Sprintf("atom%d", i+1), fmt.Sprintf("label%d", i+1))
	}
	header = append(header, T.Columns...)
	bw.WriteString(strings.Join(header, "\t") + "\n")
	fields := make([]string, 0, len(header))
	for _, r := range T.Rows {
		fields = fields[:0]
		for i := 0; i < natoms; i++ {
			if i < len(r.Atoms) {
				label := ""
				if i < len(r.Labels) {
					label = r.Labels[i]
				}
				fields = append(fields, strconv.Itoa(r.Atoms[i]), label)
			} else {
				fields = append(fields, "", "")
			}
		}
		for c := range T.Columns {
			if !r.Valid || c >= len(r.Values) {
				fields = append(fields, NoData)
				continue
			}
			fields = append(fields, strconv.FormatFloat(r.Values[c], 'f', 4, 64))
		}
		bw.WriteString(strings.Join(fields, "\t") + "\n")
	}
	return bw.Flush()
}

//WriteJSON writes T as indented JSON.
func WriteJSON(w io.Writer, T *Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(T)
}

//WriteMsgPack writes T as MessagePack, with the same field names as the JSON output.
func WriteMsgPack(w io.Writer, T *Table) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	return enc.Encode(T)
}

//Read reads a table written in JSON or MessagePack format.
func Read(r io.Reader, format string) (*Table, error) {
	T := new(Table)
	switch strings.ToLower(format) {
	case JSON:
		if err := json.NewDecoder(r).Decode(T); err != nil {
			return nil, err
		}
	case MsgPack:
		dec := msgpack.NewDecoder(r)
		dec.SetCustomStructTag("json")
		if err := dec.Decode(T); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("Can't read tables in format %q", format)
	}
	return T, nil
}
