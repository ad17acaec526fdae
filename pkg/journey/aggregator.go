package journey

// Aggregate reduces every observation list in the log to total and mean
// elapsed days, preserving the log's first-observed key order. It is a
// pure reduction; keys are opaque at this stage.
func Aggregate(log *TransitionLog) *StatsLog {
	out := &StatsLog{
		keys:  append([]TransitionKey(nil), log.Keys()...),
		stats: make(map[TransitionKey]TransitionStats, log.Len()),
	}
	for _, key := range log.Keys() {
		samples := log.Observations(key)
		total := 0
		for _, s := range samples {
			total += s
		}
		average := 0.0
		if len(samples) > 0 {
			average = float64(total) / float64(len(samples))
		}
		out.stats[key] = TransitionStats{Total: total, Average: average, Count: len(samples)}
	}
	return out
}
