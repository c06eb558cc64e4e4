package ecology

import "github.com/pixil98/go-aeternus/internal/chronicle"

// Journal receives the notable events of the background engines.
type Journal interface {
	RecordDeath(chronicle.Death)
	RecordApex(chronicle.ApexChange)
	RecordEvolution(chronicle.Evolution)
}

type nopJournal struct{}

func (nopJournal) RecordDeath(chronicle.Death)         {}
func (nopJournal) RecordApex(chronicle.ApexChange)     {}
func (nopJournal) RecordEvolution(chronicle.Evolution) {}
