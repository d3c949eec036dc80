package model

import (
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Record is one entry of an account history
type Record struct {
	ID        uuid.UUID       `json:"id"`
	Kind      Kind            `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

// History is the append-only transaction log of a single account
type History struct {
	clock   Clock
	records []Record
}

// NewHistory creates an empty history stamped by clock
func NewHistory(clock Clock) *History {
	if clock == nil {
		clock = SystemClock{}
	}
	return &History{clock: clock}
}

// Record appends tx with the current time, truncated to the second
func (h *History) Record(tx Transaction) Record {
	rec := Record{
		ID:        uuid.New(),
		Kind:      tx.Kind(),
		Amount:    tx.Amount(),
		Timestamp: h.clock.Now().Truncate(time.Second),
	}
	h.records = append(h.records, rec)
	return rec
}

// Report yields records in insertion order. A non-empty kind keeps only
// records of that kind, compared case-insensitively.
func (h *History) Report(kind string) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, rec := range h.records {
			if kind != "" && !strings.EqualFold(string(rec.Kind), kind) {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// TodayRecords returns the records stamped on the clock's current date
func (h *History) TodayRecords() []Record {
	now := h.clock.Now()
	var today []Record
	for _, rec := range h.records {
		if sameDate(rec.Timestamp.In(now.Location()), now) {
			today = append(today, rec)
		}
	}
	return today
}

// CountKind returns how many records of kind were ever recorded
func (h *History) CountKind(kind Kind) int {
	n := 0
	for _, rec := range h.records {
		if rec.Kind == kind {
			n++
		}
	}
	return n
}

// Records returns a copy of all records
func (h *History) Records() []Record {
	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

// Last returns the most recent record
func (h *History) Last() (Record, bool) {
	if len(h.records) == 0 {
		return Record{}, false
	}
	return h.records[len(h.records)-1], true
}

func (h *History) Len() int {
	return len(h.records)
}
