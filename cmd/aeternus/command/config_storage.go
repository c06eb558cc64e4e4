package command

import (
	"context"
	"fmt"
	"os"

	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/storage"
	"github.com/pixil98/go-errors"
)

type StorageConfig struct {
	Rooms      AssetConfig[*game.Room]            `json:"rooms"`
	Items      AssetConfig[*game.ItemTemplate]    `json:"items"`
	NPCs       AssetConfig[*game.NPCTemplate]     `json:"npcs"`
	BodyPlans  AssetConfig[*game.BodyPlan]        `json:"body_plans"`
	Characters AssetConfig[*game.CharacterRecord] `json:"characters"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Rooms.Validate("rooms"))
	el.Add(c.Items.Validate("items"))
	el.Add(c.NPCs.Validate("npcs"))
	el.Add(c.BodyPlans.Validate("body_plans"))
	el.Add(c.Characters.Validate("characters"))
	return el.Err()
}

// BuildCatalog loads every template store.
func (c *StorageConfig) BuildCatalog(ctx context.Context) (*game.Catalog, error) {
	rooms, err := c.Rooms.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating room store: %w", err)
	}
	items, err := c.Items.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating item store: %w", err)
	}
	npcs, err := c.NPCs.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating npc store: %w", err)
	}
	plans, err := c.BodyPlans.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating body plan store: %w", err)
	}

	return game.NewCatalog(ctx, rooms, items, npcs, plans), nil
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
