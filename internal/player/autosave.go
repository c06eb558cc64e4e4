package player

import (
	"context"
	"fmt"

	"github.com/pixil98/go-aeternus/internal/clock"
	"github.com/pixil98/go-errors"
)

// SaveAll writes the record of every connected character. Its signature
// lets it run on the clock's slow loop.
func (m *Manager) SaveAll(ctx context.Context, _ clock.Date) error {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	el := errors.NewErrorList()
	for _, id := range ids {
		rec := m.world.CharacterRecord(id)
		if rec == nil {
			continue
		}
		if err := m.records.Save(id, rec); err != nil {
			el.Add(fmt.Errorf("saving %q: %w", id, err))
		}
	}
	return el.Err()
}
