package records

import "time"

// ConditionRecord is one row of the condition history: a patient was
// recorded with a condition starting at a point in time. Records are
// consumed in stream order and are assumed sorted ascending by start
// time within each patient.
type ConditionRecord struct {
	PatientID   string    `json:"patient_id"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
}
