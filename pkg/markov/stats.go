package markov

// ModelStats holds aggregated statistics for a single WordModel.
type ModelStats struct {
	Words       int // The number of distinct words.
	Starters    int // The number of words that can start a sentence.
	Transitions int // The number of unique word->successor links.
	DeadEnds    int // The number of words with no successor; walks stop here.
	StartTotal  int // Sum of all start counts.
	MidTotal    int // Sum of all middle counts.
	EndTotal    int // Sum of all end counts.
}

// Stats returns a snapshot of statistics for the model.
func (m *WordModel) Stats() ModelStats {
	stats := ModelStats{
		Words:    len(m.entries),
		Starters: len(m.starters),
	}
	for _, e := range m.entries {
		stats.Transitions += len(e.Successors)
		if len(e.Successors) == 0 {
			stats.DeadEnds++
		}
		stats.StartTotal += e.StartCount
		stats.MidTotal += e.MidCount
		stats.EndTotal += e.EndCount
	}
	return stats
}
