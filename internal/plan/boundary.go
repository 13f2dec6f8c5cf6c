package plan

// Boundary is a planned clip interval on the song timeline. StartBeatIndex and
// EndBeatIndex identify the grid beats the edges snapped to; -1 means the edge
// sits on a range edge or an unsnapped fallback position instead of a beat.
type Boundary struct {
	StartTime      float64 `json:"start_s"`
	EndTime        float64 `json:"end_s"`
	StartBeatIndex int     `json:"start_beat_index"`
	EndBeatIndex   int     `json:"end_beat_index"`
	BeatsWithin    int     `json:"beats_within"`
}

// DurationSec returns the planned clip duration in seconds.
func (b Boundary) DurationSec() float64 {
	return b.EndTime - b.StartTime
}
