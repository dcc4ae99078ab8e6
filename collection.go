package strongmotion

import (
	"math"
	"sort"

	"github.com/samber/lo"
)

// DuplicatePreferenceOrder ranks candidate streams describing the same
// physical channel. Earlier entries in ProcessLevelOrder/FormatOrder
// win; when process level and format agree, the first-encountered
// stream wins. Start time, npts, sampling rate and location code are
// not used for ranking.
type DuplicatePreferenceOrder struct {
	ProcessLevelOrder []ProcessLevel
	FormatOrder       []string
	MaxDistTolerance  float64 // metres; same "max_dist_tolerance"
}

// StreamCollection groups Streams recorded for one event, enforcing
// that no two streams share a full channel id.
// Duplicate resolution mirrors qa.go's duplicate-ping
// detection (samber/lo set/duplicate helpers) generalized from
// "same timestamp" to "same station/channel within a geographic
// tolerance, ranked by a configured preference order".
type StreamCollection struct {
	streams  []*Stream
	rejected []*Stream // streams dropped by duplicate resolution, kept for provenance/auditing
}

// NewStreamCollection resolves duplicates across candidates up front
// per pref, returning the surviving collection.
func NewStreamCollection(candidates []*Stream, pref DuplicatePreferenceOrder) *StreamCollection {
	c := &StreamCollection{}

	groups := groupByChannelAndDistance(candidates, pref.MaxDistTolerance)
	for _, group := range groups {
		if len(group) == 1 {
			c.streams = append(c.streams, group[0])
			continue
		}
		winner, rest := resolveDuplicates(group, pref)
		c.streams = append(c.streams, winner)
		c.rejected = append(c.rejected, rest...)
	}
	return c
}

// groupByChannelAndDistance buckets streams by (net, sta, loc,
// channel) plus geographic tolerance: two streams whose station
// coordinates are within tolerance metres, and whose station+channel
// strings match, are treated as duplicates even if their network
// codes differ.
func groupByChannelAndDistance(streams []*Stream, tolerance float64) [][]*Stream {
	var groups [][]*Stream

	for _, s := range streams {
		placed := false
		for i, g := range groups {
			if sameChannelGroup(g[0], s, tolerance) {
				groups[i] = append(groups[i], s)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []*Stream{s})
		}
	}
	return groups
}

func sameChannelGroup(a, b *Stream, tolerance float64) bool {
	at, bt := a.Traces(), b.Traces()
	if len(at) == 0 || len(bt) == 0 {
		return false
	}
	ac, bc := at[0], bt[0]
	if ac.Station != bc.Station || ac.Channel != bc.Channel {
		return false
	}
	if ac.Network == bc.Network && ac.Location == bc.Location {
		return true
	}
	return haversineMetres(ac.Coordinates.Latitude, ac.Coordinates.Longitude,
		bc.Coordinates.Latitude, bc.Coordinates.Longitude) <= tolerance
}

const earthRadiusM = 6371000.0

// haversineMetres is the standard great-circle distance formula; see
// DESIGN.md for why this is stdlib math rather than the meeus "globe"
// package.
func haversineMetres(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180.0
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

// resolveDuplicates ranks a group of colliding streams by pref and
// returns the winner plus the rest (recorded as rejected, per
// DESIGN.md Open Question 1: ties keep the first-encountered stream).
func resolveDuplicates(group []*Stream, pref DuplicatePreferenceOrder) (winner *Stream, rest []*Stream) {
	type scored struct {
		s     *Stream
		score [4]int
	}
	scoredGroup := make([]scored, len(group))
	for i, s := range group {
		t := s.Traces()[0]
		scoredGroup[i] = scored{
			s: s,
			score: [4]int{
				indexOf(pref.ProcessLevelOrder, t.Standard.ProcessLevel),
				indexOf(pref.FormatOrder, t.Standard.SourceFormat),
				i, // stable tie-break: insertion order
				0,
			},
		}
	}
	sort.SliceStable(scoredGroup, func(i, j int) bool {
		return lessScore(scoredGroup[i].score, scoredGroup[j].score)
	})

	winner = scoredGroup[0].s
	best := scoredGroup[0].score
	for _, sc := range scoredGroup[1:] {
		if sc.score[0] == best[0] && sc.score[1] == best[1] {
			sc.s.SetStreamParameter("duplicate_tie", true)
		}
		rest = append(rest, sc.s)
	}
	return winner, rest
}

func lessScore(a, b [4]int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// indexOf returns the position of v in order, or len(order) (lowest
// priority) if v is absent — an unknown/unlisted value never beats a
// configured preference.
func indexOf[T comparable](order []T, v T) int {
	for i, o := range order {
		if o == v {
			return i
		}
	}
	return len(order)
}

// Streams returns every surviving stream in the collection.
func (c *StreamCollection) Streams() []*Stream { return c.streams }

// Rejected returns streams dropped during duplicate resolution.
func (c *StreamCollection) Rejected() []*Stream { return c.rejected }

// StationCodes returns the distinct net.sta codes present, using
// lo.Uniq for set bookkeeping.
func (c *StreamCollection) StationCodes() []string {
	codes := make([]string, 0, len(c.streams))
	for _, s := range c.streams {
		if len(s.Traces()) == 0 {
			continue
		}
		t := s.Traces()[0]
		codes = append(codes, t.Network+"."+t.Station)
	}
	return lo.Uniq(codes)
}
