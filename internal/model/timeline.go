package model

import "sort"

// Change is a single (identifier code, value) pair inside an event.
type Change struct {
	Code  string
	Value string
}

// Event groups every change recorded under one timestamp marker.
type Event struct {
	Time    int64
	Changes []Change
}

// Sample is one entry of a timeline.
type Sample struct {
	Time  int64  `yaml:"time"`
	Value string `yaml:"value"`
}

// Timeline is the ordered value history of one identifier code.
// Samples are sorted by Time; it is never modified after the build phase.
type Timeline []Sample

// At returns the latest sample with Time <= t.
func (tl Timeline) At(t int64) (Sample, bool) {
	i := sort.Search(len(tl), func(i int) bool { return tl[i].Time > t })
	if i == 0 {
		return Sample{}, false
	}

	return tl[i-1], true
}

// Between returns the samples whose Time lies in [start, end].
func (tl Timeline) Between(start, end int64) Timeline {
	lo := sort.Search(len(tl), func(i int) bool { return tl[i].Time >= start })
	hi := sort.Search(len(tl), func(i int) bool { return tl[i].Time > end })

	if lo >= hi {
		return nil
	}

	return tl[lo:hi]
}
