package journey

import (
	"testing"
	"time"

	"github.com/Kevinm360/Sankey-Diagram/pkg/records"
)

func record(patient, description, day string) records.ConditionRecord {
	start, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return records.ConditionRecord{PatientID: patient, Description: description, Start: start}
}

func extract(recs ...records.ConditionRecord) *TransitionLog {
	e := NewExtractor()
	for _, r := range recs {
		e.Consume(r)
	}
	return e.Log()
}

func TestExtractorAdjacentSamePatientPairs(t *testing.T) {
	log := extract(
		record("P1", "A", "2020-01-01"),
		record("P1", "B", "2020-01-05"),
		record("P2", "C", "2020-01-01"),
		record("P2", "D", "2020-01-02"),
	)

	keys := log.Keys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(keys))
	}
	if keys[0] != (TransitionKey{From: "A", To: "B"}) {
		t.Fatalf("unexpected first key: %+v", keys[0])
	}
	if keys[1] != (TransitionKey{From: "C", To: "D"}) {
		t.Fatalf("unexpected second key: %+v", keys[1])
	}

	ab := log.Observations(TransitionKey{From: "A", To: "B"})
	if len(ab) != 1 || ab[0] != 4 {
		t.Fatalf("expected [4] for A->B, got %v", ab)
	}
	cd := log.Observations(TransitionKey{From: "C", To: "D"})
	if len(cd) != 1 || cd[0] != 1 {
		t.Fatalf("expected [1] for C->D, got %v", cd)
	}
}

func TestExtractorPatientBoundarySuppressesEmission(t *testing.T) {
	log := extract(
		record("P1", "A", "2020-01-01"),
		record("P2", "B", "2020-01-10"),
	)
	if log.Len() != 0 {
		t.Fatalf("expected no transitions across patients, got %d", log.Len())
	}
}

func TestExtractorEmptyAndSingleRecordStreams(t *testing.T) {
	if log := extract(); log.Len() != 0 {
		t.Fatalf("expected empty log for empty stream, got %d keys", log.Len())
	}
	if log := extract(record("P1", "A", "2020-01-01")); log.Len() != 0 {
		t.Fatalf("expected empty log for single record, got %d keys", log.Len())
	}
}

func TestExtractorDirectedKeysTrackedIndependently(t *testing.T) {
	log := extract(
		record("P1", "A", "2020-01-01"),
		record("P1", "B", "2020-01-03"),
		record("P1", "A", "2020-01-10"),
	)

	keys := log.Keys()
	if len(keys) != 2 {
		t.Fatalf("expected A->B and B->A as distinct keys, got %v", keys)
	}
	ab := log.Observations(TransitionKey{From: "A", To: "B"})
	if len(ab) != 1 || ab[0] != 2 {
		t.Fatalf("expected [2] for A->B, got %v", ab)
	}
	ba := log.Observations(TransitionKey{From: "B", To: "A"})
	if len(ba) != 1 || ba[0] != 7 {
		t.Fatalf("expected [7] for B->A, got %v", ba)
	}
}

func TestExtractorSubDayGapTruncatesToZero(t *testing.T) {
	first := records.ConditionRecord{
		PatientID:   "P1",
		Description: "A",
		Start:       time.Date(2020, 1, 1, 8, 0, 0, 0, time.UTC),
	}
	second := records.ConditionRecord{
		PatientID:   "P1",
		Description: "B",
		Start:       time.Date(2020, 1, 2, 7, 0, 0, 0, time.UTC),
	}
	log := extract(first, second)

	obs := log.Observations(TransitionKey{From: "A", To: "B"})
	if len(obs) != 1 || obs[0] != 0 {
		t.Fatalf("expected 23h gap to truncate to 0 days, got %v", obs)
	}
}

func TestExtractorRepeatedTransitionAccumulates(t *testing.T) {
	log := extract(
		record("P1", "A", "2020-01-01"),
		record("P1", "B", "2020-01-02"),
		record("P2", "A", "2020-01-01"),
		record("P2", "B", "2020-01-04"),
	)

	obs := log.Observations(TransitionKey{From: "A", To: "B"})
	if len(obs) != 2 || obs[0] != 1 || obs[1] != 3 {
		t.Fatalf("expected [1 3] for A->B, got %v", obs)
	}
}

func TestStepBehaviour(t *testing.T) {
	first := record("P1", "A", "2020-01-01")
	second := record("P1", "B", "2020-01-06")

	obs, ok, prev := Step(nil, first)
	if ok {
		t.Fatalf("expected no observation at stream start, got %+v", obs)
	}
	if prev == nil || prev.Description != "A" {
		t.Fatal("expected previous slot to advance to first record")
	}

	obs, ok, prev = Step(prev, second)
	if !ok {
		t.Fatal("expected observation for adjacent same-patient pair")
	}
	if obs.Key != (TransitionKey{From: "A", To: "B"}) || obs.ElapsedDays != 5 {
		t.Fatalf("unexpected observation: %+v", obs)
	}
	if prev.Description != "B" {
		t.Fatal("expected previous slot to advance to second record")
	}

	// Previous slot advances even when the patient changes.
	other := record("P9", "C", "2020-02-01")
	_, ok, prev = Step(prev, other)
	if ok {
		t.Fatal("expected no observation across a patient boundary")
	}
	if prev.PatientID != "P9" {
		t.Fatal("expected previous slot to advance across patient boundary")
	}
}
