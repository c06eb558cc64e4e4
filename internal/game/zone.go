package game

// ZoneState is the ecological state of one region.
type ZoneState struct {
	Region      int
	ThreatLevel int
	ApexID      string
	ApexTitle   string
	Population  int
}

func newZoneState(region int) *ZoneState {
	return &ZoneState{Region: region, ThreatLevel: 1}
}
