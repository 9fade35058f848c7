/*
 * tokenizer.go, part of trajan.
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

package hbond

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

//ParseError is an error in a configuration file.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (E *ParseError) Error() string {
	if E.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", E.File, E.Line, E.Msg)
	}
	return fmt.Sprintf("%s: %s", E.File, E.Msg)
}

const singleChars = "{}(),@=;[]:"

type token struct {
	text   string
	line   int
	quoted bool
}

//is returns true if the token is the unquoted text s.
func (t token) is(s string) bool {
	return !t.quoted && t.text == s
}

//tokenize splits a configuration text in tokens. The first line, with the signature,
//is returned separately. Tokens are words separated by whitespace, quoted strings, and the
//characters in singleChars. // and /* */ comments are skipped.
func tokenize(r io.Reader, file string) (string, []token, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)
	var toks []token
	signature := ""
	lineno := 0
	incomment := false
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if lineno == 1 {
			signature = strings.TrimSpace(line)
			continue
		}
		i := 0
		for i < len(line) {
			c := line[i]
			switch {
			case incomment:
				end := strings.Index(line[i:], "*/")
				if end < 0 {
					i = len(line)
					continue
				}
				i += end + 2
				incomment = false
			case c == ' ' || c == '\t' || c == '\r':
				i++
			case strings.HasPrefix(line[i:], "//"):
				i = len(line)
			case strings.HasPrefix(line[i:], "/*"):
				incomment = true
				i += 2
			case c == '"':
				end := strings.IndexByte(line[i+1:], '"')
				if end < 0 {
					return "", nil, &ParseError{file, lineno, "unterminated string"}
				}
				toks = append(toks, token{line[i+1 : i+1+end], lineno, true})
				i += end + 2
			case strings.IndexByte(singleChars, c) >= 0:
				toks = append(toks, token{string(c), lineno, false})
				i++
			default:
				start := i
				for i < len(line) && !isBreak(line, i) {
					i++
				}
				toks = append(toks, token{line[start:i], lineno, false})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", nil, &ParseError{file, lineno, err.Error()}
	}
	if incomment {
		return "", nil, &ParseError{file, lineno, "unterminated comment"}
	}
	return signature, toks, nil
}

func isBreak(line string, i int) bool {
	c := line[i]
	if c == ' ' || c == '\t' || c == '\r' || c == '"' || strings.IndexByte(singleChars, c) >= 0 {
		return true
	}
	return strings.HasPrefix(line[i:], "//") || strings.HasPrefix(line[i:], "/*")
}

//checkSignature verifies that sig is prefix followed by a supported version number.
func checkSignature(sig, prefix, file string, maxVersion int) error {
	if !strings.HasPrefix(sig, prefix) {
		return &ParseError{file, 1, fmt.Sprintf("missing %s signature", prefix)}
	}
	v, err := strconv.Atoi(strings.TrimPrefix(sig, prefix))
	if err != nil || v < 1 || v > maxVersion {
		return &ParseError{file, 1, fmt.Sprintf("unsupported version in signature %q", sig)}
	}
	return nil
}

//parser walks a token list.
type parser struct {
	toks []token
	pos  int
	file string
	last int //line of the last token read, for errors at the end of the file
}

func (P *parser) done() bool {
	return P.pos >= len(P.toks)
}

func (P *parser) peek() (token, bool) {
	if P.done() {
		return token{}, false
	}
	return P.toks[P.pos], true
}

func (P *parser) next() (token, error) {
	if P.done() {
		return token{}, P.errorf("unexpected end of file")
	}
	t := P.toks[P.pos]
	P.pos++
	P.last = t.line
	return t, nil
}

//expect reads the next token and checks that it is s.
func (P *parser) expect(s string) error {
	t, err := P.next()
	if err != nil {
		return &ParseError{P.file, P.last, fmt.Sprintf("expected %q at the end of the file", s)}
	}
	if !t.is(s) {
		return &ParseError{P.file, t.line, fmt.Sprintf("expected %q, found %q", s, t.text)}
	}
	return nil
}

//word reads a name: any unquoted word or quoted string.
func (P *parser) word(what string) (string, error) {
	t, err := P.next()
	if err != nil {
		return "", err
	}
	if !t.quoted && strings.IndexByte(singleChars, t.text[0]) >= 0 {
		return "", &ParseError{P.file, t.line, fmt.Sprintf("expected %s, found %q", what, t.text)}
	}
	return t.text, nil
}

func (P *parser) number() (float64, error) {
	t, err := P.next()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(t.text, 64)
	if err != nil {
		return 0, &ParseError{P.file, t.line, fmt.Sprintf("bad number %q", t.text)}
	}
	return f, nil
}

//accept consumes the next token if it is s, and returns true in that case.
func (P *parser) accept(s string) bool {
	if t, ok := P.peek(); ok && t.is(s) {
		P.pos++
		P.last = t.line
		return true
	}
	return false
}

func (P *parser) errorf(format string, args ...interface{}) error {
	line := P.last
	if t, ok := P.peek(); ok {
		line = t.line
	}
	return &ParseError{P.file, line, fmt.Sprintf(format, args...)}
}
