package relfile

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/PaulHuygen/ukb"
)

// Dictionary is an in-memory word -> concepts table. It implements
// ukb.Dictionary.
type Dictionary struct {
	words   []string
	entries map[string][]ukb.DictEntry
}

var _ ukb.Dictionary = (*Dictionary)(nil)

// Words returns the words in sorted order.
func (d *Dictionary) Words() []string { return d.words }

// Entries returns the concepts of word.
func (d *Dictionary) Entries(word string) []ukb.DictEntry { return d.entries[word] }

// Len returns the number of words.
func (d *Dictionary) Len() int { return len(d.words) }

// ReadDictionary parses a dictionary file. The weight of a concept is its
// add-one smoothed relative count among the concepts of the word, so
// concepts without counts share the mass uniformly. A word listed on
// several lines accumulates its concepts; repeated concepts add counts.
func ReadDictionary(r io.Reader) (*Dictionary, error) {
	type sense struct {
		concept string
		count   float64
	}
	senses := make(map[string][]sense)
	var order []string

	sc := newScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) < 2 {
			return nil, &SyntaxError{Line: line, Msg: fmt.Sprintf("word %q has no concepts", fields[0])}
		}
		word := fields[0]
		if _, ok := senses[word]; !ok {
			order = append(order, word)
		}
		for _, f := range fields[1:] {
			concept, count := f, 0.0
			if i := strings.LastIndexByte(f, ':'); i > 0 {
				c, ok := parseAmount(f[i+1:], 64)
				if !ok {
					return nil, &SyntaxError{Line: line, Msg: fmt.Sprintf("invalid count in %q", f)}
				}
				concept, count = f[:i], c
			}
			list := senses[word]
			if j := slices.IndexFunc(list, func(s sense) bool { return s.concept == concept }); j >= 0 {
				list[j].count += count
			} else {
				senses[word] = append(list, sense{concept: concept, count: count})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("relfile: line %d: %w", line+1, err)
	}

	d := &Dictionary{entries: make(map[string][]ukb.DictEntry, len(senses))}
	for _, word := range order {
		list := senses[word]
		var total float64
		for _, s := range list {
			total += s.count + 1
		}
		entries := make([]ukb.DictEntry, len(list))
		for i, s := range list {
			entries[i] = ukb.DictEntry{Concept: s.concept, Weight: float32((s.count + 1) / total)}
		}
		d.entries[word] = entries
	}
	d.words = order
	slices.Sort(d.words)
	return d, nil
}
