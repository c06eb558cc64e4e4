package game

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrRoomNotFound     = fmt.Errorf("room %w", ErrNotFound)
	ErrTemplateNotFound = fmt.Errorf("template %w", ErrNotFound)
	ErrPlayerExists     = errors.New("player already exists")
	ErrNotStarted       = errors.New("world not started")
	ErrItemNotHere      = errors.New("item is not here")
	ErrNotCarried       = errors.New("item is not carried")
	ErrCannotTake       = errors.New("item cannot be taken")
	ErrCannotEquip      = errors.New("item cannot be equipped")
	ErrUnknownClass     = errors.New("unknown class")
	ErrBelowMaxLevel    = errors.New("not at max level")
)
