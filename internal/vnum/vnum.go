// Package vnum encodes and decodes location identifiers.
//
// A VNum packs a region id and a local id into one integer as
// region*100000 + local. Values up to 99999 predate regions and decode to
// region 0.
package vnum

import (
	"fmt"
	"strconv"
)

const (
	LegacyLimit = 99999
	LocalLimit  = 99999
	RegionLimit = 999

	regionMultiplier = 100000
)

// VNum is an encoded location identifier.
type VNum int

// New encodes a region and local id. It fails if either part is out of range.
func New(region, local int) (VNum, error) {
	if local < 0 || local > LocalLimit {
		return 0, fmt.Errorf("local id %d out of range [0, %d]", local, LocalLimit)
	}
	if region < 0 || region > RegionLimit {
		return 0, fmt.Errorf("region id %d out of range [0, %d]", region, RegionLimit)
	}
	return VNum(region*regionMultiplier + local), nil
}

// MustNew is New for constants known to be valid.
func MustNew(region, local int) VNum {
	v, err := New(region, local)
	if err != nil {
		panic(err)
	}
	return v
}

// Parse splits v into its region and local parts.
func (v VNum) Parse() (region, local int) {
	if v.IsLegacy() {
		return 0, int(v)
	}
	return int(v) / regionMultiplier, int(v) % regionMultiplier
}

func (v VNum) Region() int {
	r, _ := v.Parse()
	return r
}

func (v VNum) Local() int {
	_, l := v.Parse()
	return l
}

func (v VNum) IsLegacy() bool {
	return v <= LegacyLimit
}

// Valid reports whether v could have been produced by New.
func (v VNum) Valid() bool {
	return v >= 0 && int(v) <= RegionLimit*regionMultiplier+LocalLimit
}

func (v VNum) String() string {
	return strconv.Itoa(int(v))
}

// FromString parses a decimal identifier such as an asset id.
func FromString(s string) (VNum, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parsing vnum %q: %w", s, err)
	}
	v := VNum(i)
	if !v.Valid() {
		return 0, fmt.Errorf("vnum %d out of range", i)
	}
	return v, nil
}
