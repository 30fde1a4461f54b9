// Package duplicate detects repeated positive notifications for one order by
// re-reading the audit notes the confirmation flow writes.
//
// Notes are HTML fragments. The transaction number sits in a span with
// id="dptrnr" and the status phrase in a span with id="dptrst". Notes written
// by this service also carry a data-dpstatus attribute with a canonical tag, so
// classification does not depend on the rendered language. Phrases are still
// matched for notes written before the tag existed.
package duplicate

import (
	"regexp"
	"sort"
	"strings"
)

type Field int

const (
	FieldTransaction Field = iota
	FieldStatus
	FieldStatusTag
)

// StatusTag values stored in data-dpstatus.
const (
	TagPaid      = "paid"
	TagCancelled = "cancelled"
	TagPending   = "pending"
)

var (
	transactionPattern = regexp.MustCompile(`id="dptrnr">(M\d{4}-\d{5})<`)
	statusPattern      = regexp.MustCompile(`id="dptrst">([^<]*)<`)
	statusTagPattern   = regexp.MustCompile(`<span[^>]*\bdata-dpstatus="([a-z_]+)"[^>]*\bid="dptrst">`)
)

// paidPhrases are the localized "paid" labels of legacy notes. Each supported
// back-office language needs its entry here.
var paidPhrases = map[string]struct{}{
	"paid : processing":                           {},
	"paid : completed (virtual product)":          {},
	"oplacone : przetwarzane":                     {},
	"oplacone : zrealizowane (produkt wirtualny)": {},
}

// ParseNoteField extracts one field from a note, or "" when it is absent.
func ParseNoteField(note string, field Field) string {
	var re *regexp.Regexp
	switch field {
	case FieldTransaction:
		re = transactionPattern
	case FieldStatus:
		re = statusPattern
	case FieldStatusTag:
		re = statusTagPattern
	default:
		return ""
	}
	m := re.FindStringSubmatch(note)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// IsPaidNote classifies a note's status as positive.
func IsPaidNote(note string) bool {
	if tag := ParseNoteField(note, FieldStatusTag); tag != "" {
		return tag == TagPaid
	}
	_, ok := paidPhrases[strings.TrimSpace(ParseNoteField(note, FieldStatus))]
	return ok
}

// Tally counts positive notifications per transaction number.
type Tally map[string]int

// TallyPositive rebuilds the tally from every note of an order. Notes without
// a transaction number do not count.
func TallyPositive(notes []string) Tally {
	t := Tally{}
	for _, note := range notes {
		nr := ParseNoteField(note, FieldTransaction)
		if nr == "" || !IsPaidNote(note) {
			continue
		}
		t[nr]++
	}
	return t
}

// HasPositive reports whether any positive notification was recorded.
func (t Tally) HasPositive() bool { return len(t) > 0 }

// IsDuplicate reports whether more than one transaction was confirmed as
// paid. Redelivery of the same transaction only raises its count.
func (t Tally) IsDuplicate() bool { return len(t) > 1 }

type Entry struct {
	TransactionNumber string
	Count             int
}

// Entries returns the tally sorted by transaction number.
func (t Tally) Entries() []Entry {
	out := make([]Entry, 0, len(t))
	for nr, c := range t {
		out = append(out, Entry{TransactionNumber: nr, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionNumber < out[j].TransactionNumber })
	return out
}
