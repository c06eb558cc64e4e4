package ecology

import (
	"sync"

	"github.com/pixil98/go-aeternus/internal/chronicle"
)

// scriptedRand replays fixed draws. Once a queue runs dry it returns 0.5 for
// floats and 0 for ints.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *scriptedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	i := r.ints[0]
	r.ints = r.ints[1:]
	return min(i, n-1)
}

type recordingJournal struct {
	mu         sync.Mutex
	deaths     []chronicle.Death
	apex       []chronicle.ApexChange
	evolutions []chronicle.Evolution
}

func (j *recordingJournal) RecordDeath(d chronicle.Death) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.deaths = append(j.deaths, d)
}

func (j *recordingJournal) RecordApex(a chronicle.ApexChange) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.apex = append(j.apex, a)
}

func (j *recordingJournal) RecordEvolution(e chronicle.Evolution) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.evolutions = append(j.evolutions, e)
}

type fakeCombat map[string]bool

func (f fakeCombat) InCombat(id string) bool { return f[id] }
