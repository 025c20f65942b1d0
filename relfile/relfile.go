// Package relfile reads the text formats a knowledge base is compiled from.
//
// Relation files hold one record per line as whitespace-separated
// key:value fields:
//
//	# WordNet 3.0 hypernyms
//	u:dog.n.01 v:canine.n.02 t:hypernym s:wn30 d:1
//	u:dog.n.01 v:cat.n.01 t:similar s:xwn w:0.5
//
// Keys are u (source concept), v (target concept), t (relation type),
// s (origin), w (weight, default 1) and d (1 for directed, 0 or absent for
// undirected). Unknown keys are ignored.
//
// Dictionary files map a word to its concepts, optionally with a usage
// count per concept:
//
//	bank bank.n.01:25 bank.n.02:3 bank.v.01
package relfile

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"math"
	"strconv"
	"strings"

	"github.com/PaulHuygen/ukb"
)

const maxLineSize = 1 << 20

// parseAmount parses a finite, non-negative number.
func parseAmount(s string, bitSize int) (float64, bool) {
	f, err := strconv.ParseFloat(s, bitSize)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// SyntaxError reports a malformed line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("relfile: line %d: %s", e.Line, e.Msg)
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	return sc
}

// ReadRelations returns the records of a relation file. Iteration stops
// after the first error, which is a *SyntaxError for malformed lines.
func ReadRelations(r io.Reader) iter.Seq2[ukb.Relation, error] {
	return func(yield func(ukb.Relation, error) bool) {
		sc := newScanner(r)
		line := 0
		for sc.Scan() {
			line++
			text := strings.TrimSpace(sc.Text())
			if text == "" || text[0] == '#' {
				continue
			}
			rec, err := parseRelation(text)
			if err != nil {
				yield(ukb.Relation{}, &SyntaxError{Line: line, Msg: err.Error()})
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(ukb.Relation{}, fmt.Errorf("relfile: line %d: %w", line+1, err))
		}
	}
}

func parseRelation(text string) (ukb.Relation, error) {
	rec := ukb.Relation{Weight: 1, Undirected: true}
	for _, field := range strings.Fields(text) {
		key, value, ok := strings.Cut(field, ":")
		if !ok || key == "" {
			return rec, fmt.Errorf("field %q is not key:value", field)
		}
		switch key {
		case "u":
			rec.Source = value
		case "v":
			rec.Target = value
		case "t":
			rec.Label = value
		case "s":
			rec.Origin = value
		case "w":
			w, ok := parseAmount(value, 32)
			if !ok {
				return rec, fmt.Errorf("invalid weight %q", value)
			}
			rec.Weight = float32(w)
		case "d":
			switch value {
			case "0":
				rec.Undirected = true
			case "1":
				rec.Undirected = false
			default:
				return rec, fmt.Errorf("invalid direction %q", value)
			}
		}
	}
	if rec.Source == "" {
		return rec, fmt.Errorf("missing source (u:)")
	}
	if rec.Target == "" {
		return rec, fmt.Errorf("missing target (v:)")
	}
	return rec, nil
}
