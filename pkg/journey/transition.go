package journey

// TransitionKey is an ordered pair of condition descriptions. (A,B) and
// (B,A) are distinct keys; equality and map hashing are structural over
// the two strings.
type TransitionKey struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TransitionLog accumulates elapsed-day observations per transition and
// remembers the order in which each key was first observed. That order
// is a contract: aggregation, label assignment, and link colors all
// follow it, so a given input always produces the same diagram.
type TransitionLog struct {
	keys         []TransitionKey
	observations map[TransitionKey][]int
}

func NewTransitionLog() *TransitionLog {
	return &TransitionLog{observations: make(map[TransitionKey][]int)}
}

// Append records one elapsed-day sample under key, registering the key
// on first sight.
func (l *TransitionLog) Append(key TransitionKey, elapsedDays int) {
	if _, ok := l.observations[key]; !ok {
		l.keys = append(l.keys, key)
	}
	l.observations[key] = append(l.observations[key], elapsedDays)
}

// Keys returns the transition keys in first-observed order.
func (l *TransitionLog) Keys() []TransitionKey {
	return l.keys
}

// Observations returns the samples recorded under key, in arrival order.
func (l *TransitionLog) Observations(key TransitionKey) []int {
	return l.observations[key]
}

func (l *TransitionLog) Len() int {
	return len(l.keys)
}

// TransitionStats is the reduction of one key's observation list.
type TransitionStats struct {
	Total   int     `json:"total"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// StatsLog holds per-transition stats in the same first-observed key
// order as the TransitionLog it was derived from.
type StatsLog struct {
	keys  []TransitionKey
	stats map[TransitionKey]TransitionStats
}

func (s *StatsLog) Keys() []TransitionKey {
	return s.keys
}

func (s *StatsLog) Stats(key TransitionKey) (TransitionStats, bool) {
	st, ok := s.stats[key]
	return st, ok
}

func (s *StatsLog) Len() int {
	return len(s.keys)
}
