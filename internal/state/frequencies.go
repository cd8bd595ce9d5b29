package state

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// Frequencies counts occurrences of tokens or bigrams.
//
// It encodes as a JSON object whose keys appear in ranking order (count
// descending, key ascending), so a trimmed table keeps its ranking on disk.
type Frequencies map[string]int

// Entry is one ranked row of a frequency table.
type Entry struct {
	Key   string
	Count int
}

// Add increments the counter for key.
func (f Frequencies) Add(key string) {
	f[key]++
}

// Ranked returns all entries ordered by count descending, key ascending.
func (f Frequencies) Ranked() []Entry {
	entries := make([]Entry, 0, len(f))
	for k, c := range f {
		entries = append(entries, Entry{Key: k, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// Top returns a new table with at most n highest-ranked entries.
func (f Frequencies) Top(n int) Frequencies {
	ranked := f.Ranked()
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make(Frequencies, len(ranked))
	for _, e := range ranked {
		out[e.Key] = e.Count
	}
	return out
}

func (f Frequencies) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range f.Ranked() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(e.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
