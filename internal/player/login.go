package player

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-aeternus/internal/display"
	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/storage"
	"github.com/pixil98/go-aeternus/internal/vnum"
)

const maxNameTries = 5

type loginFlow struct {
	records   storage.Storer[*game.CharacterRecord]
	startRoom vnum.VNum
}

// Run asks for a name until it finds an existing character or the player
// confirms a new one. It returns the character id and record.
func (f *loginFlow) Run(c *Conn) (string, *game.CharacterRecord, error) {
	for {
		name, err := Prompt(c, "By what name do you wish to be known? ",
			WithMaxTries(maxNameTries),
			WithValidator(func(str string) (bool, string) {
				if !game.ValidName(str) {
					return false, "Invalid name, please try another.\n"
				}
				return true, ""
			}),
		)
		if err != nil {
			return "", nil, err
		}

		id := strings.ToLower(name)
		if rec := f.records.Get(id); rec != nil {
			return id, rec, nil
		}

		ok, err := PromptYN(c, fmt.Sprintf("Did I get that right, %s (Y/N)? ", name))
		if err != nil {
			return "", nil, err
		}
		if !ok {
			continue
		}

		rec := game.NewCharacterRecord(display.Capitalize(id), f.startRoom)
		if err := f.records.Save(id, rec); err != nil {
			return "", nil, fmt.Errorf("saving new character %q: %w", id, err)
		}
		return id, rec, nil
	}
}
