package storage

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"

	"github.com/pixil98/go-errors"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// ValidatingSpec is anything that can be loaded from an asset file.
type ValidatingSpec interface {
	Validate() error
}

// Asset is the on-disk envelope around a record.
type Asset[T ValidatingSpec] struct {
	Version    uint   `json:"version"`
	Identifier string `json:"id"`
	Spec       T      `json:"spec"`
}

func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	if a.Version == 0 {
		el.Add(fmt.Errorf("version must be set"))
	}

	if a.Identifier == "" {
		el.Add(fmt.Errorf("id must be set"))
	} else if !identifierPattern.MatchString(a.Identifier) {
		el.Add(fmt.Errorf("id %q must be alphanumeric", a.Identifier))
	}

	if reflect.ValueOf(a.Spec).IsNil() {
		el.Add(fmt.Errorf("spec must be set"))
	} else {
		el.Add(a.Spec.Validate())
	}

	return el.Err()
}

// Ref is a by-id reference to a record in another store. It marshals as the
// bare id and is bound to its target by Resolve.
type Ref[T ValidatingSpec] struct {
	id  string
	val T
}

func NewRef[T ValidatingSpec](id string) Ref[T] {
	return Ref[T]{id: id}
}

func (r *Ref[T]) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &r.id)
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.id)
}

// Id returns the referenced identifier.
func (r Ref[T]) Id() string {
	return r.id
}

// Get returns the resolved record, or the zero value before Resolve.
func (r Ref[T]) Get() T {
	return r.val
}

// Resolve looks the reference up in st, falling back to def when the
// reference is empty.
func (r *Ref[T]) Resolve(st Storer[T], def string) error {
	if r.id == "" {
		r.id = def
	}
	r.val = st.Get(r.id)
	if reflect.ValueOf(r.val).IsNil() {
		var zero T
		return fmt.Errorf("%s %q not found", reflect.TypeOf(zero).Elem().Name(), r.id)
	}
	return nil
}
