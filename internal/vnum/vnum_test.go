package vnum

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestNew(t *testing.T) {
	tests := map[string]struct {
		region int
		local  int
		exp    VNum
		expErr string
	}{
		"first room of region one": {region: 1, local: 1, exp: 100001},
		"region twelve":             {region: 12, local: 500, exp: 1200500},
		"legacy region":             {region: 0, local: 3001, exp: 3001},
		"max values":                {region: 999, local: 99999, exp: 99999999},
		"local too large":           {region: 1, local: 100000, expErr: "local id 100000 out of range"},
		"region too large":          {region: 1000, local: 1, expErr: "region id 1000 out of range"},
		"negative local":            {region: 1, local: -1, expErr: "local id -1 out of range"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := New(tt.region, tt.local)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "vnum", v, tt.exp)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	regions := []int{0, 1, 2, 17, 500, 998, 999}
	locals := []int{0, 1, 99, 100, 5000, 99998, 99999}

	for _, r := range regions {
		for _, l := range locals {
			v, err := New(r, l)
			if err != nil {
				t.Fatalf("New(%d, %d): %v", r, l, err)
			}
			gotR, gotL := v.Parse()
			if r == 0 {
				// Region zero collapses onto the legacy range.
				testutil.AssertEqual(t, "legacy", v.IsLegacy(), true)
			}
			if gotR != r || gotL != l {
				t.Errorf("round trip (%d, %d) -> %d -> (%d, %d)", r, l, v, gotR, gotL)
			}
		}
	}
}

func TestParseLegacy(t *testing.T) {
	v := VNum(3001)
	testutil.AssertEqual(t, "region", v.Region(), 0)
	testutil.AssertEqual(t, "local", v.Local(), 3001)
}

func TestFromString(t *testing.T) {
	v, err := FromString("100001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "vnum", v, VNum(100001))

	_, err = FromString("room-1")
	testutil.AssertErrorContains(t, err, "parsing vnum")

	_, err = FromString("100000000")
	testutil.AssertErrorContains(t, err, "out of range")
}
