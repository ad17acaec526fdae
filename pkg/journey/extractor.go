package journey

import (
	"github.com/Kevinm360/Sankey-Diagram/pkg/records"
)

// Observation is one elapsed-time sample emitted for an adjacent
// same-patient record pair.
type Observation struct {
	Key         TransitionKey
	ElapsedDays int
}

// hoursPerDay is the truncating divisor for whole-day elapsed time;
// gaps under 24h collapse to 0.
const hoursPerDay = 24

// Step is the extractor's fold function. Given the previously seen
// record (nil at stream start) and the current one, it returns the
// observation for the pair, if any, and the new previous record. The
// previous slot always advances to the current record, including across
// patient boundaries, so every comparison is against the immediately
// prior row only.
func Step(prev *records.ConditionRecord, cur records.ConditionRecord) (Observation, bool, *records.ConditionRecord) {
	next := &cur
	if prev == nil || prev.PatientID != cur.PatientID {
		return Observation{}, false, next
	}
	elapsed := int(cur.Start.Sub(prev.Start).Hours() / hoursPerDay)
	obs := Observation{
		Key:         TransitionKey{From: prev.Description, To: cur.Description},
		ElapsedDays: elapsed,
	}
	return obs, true, next
}

// Extractor runs the fold over a record stream and accumulates the
// resulting observations. It carries no state beyond the previous-record
// slot and the log it fills.
type Extractor struct {
	prev *records.ConditionRecord
	log  *TransitionLog
}

func NewExtractor() *Extractor {
	return &Extractor{log: NewTransitionLog()}
}

// Consume feeds one record through the fold in stream order.
func (e *Extractor) Consume(record records.ConditionRecord) {
	obs, ok, next := Step(e.prev, record)
	e.prev = next
	if ok {
		e.log.Append(obs.Key, obs.ElapsedDays)
	}
}

// Log returns the accumulated transition log. Empty and single-record
// streams yield an empty log.
func (e *Extractor) Log() *TransitionLog {
	return e.log
}
