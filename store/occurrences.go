package store

import (
	"sort"

	"github.com/zemki/molonews-backend/model"
)

// MergeOccurrences collapses overlapping or touching occurrence windows of a
// single event into maximal continuous windows. Input order does not matter;
// the result is sorted by start time.
func MergeOccurrences(occurrences []model.EventOccurrence) []model.EventOccurrence {
	if len(occurrences) == 0 {
		return nil
	}

	sorted := append([]model.EventOccurrence{}, occurrences...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartDatetime.Before(sorted[j].StartDatetime)
	})

	merged := []model.EventOccurrence{{
		StartDatetime: sorted[0].StartDatetime,
		EndDatetime:   sorted[0].EndDatetime,
	}}
	for _, occurrence := range sorted[1:] {
		current := &merged[len(merged)-1]
		if !occurrence.StartDatetime.After(current.EndDatetime) {
			if occurrence.EndDatetime.After(current.EndDatetime) {
				current.EndDatetime = occurrence.EndDatetime
			}
			continue
		}
		merged = append(merged, model.EventOccurrence{
			StartDatetime: occurrence.StartDatetime,
			EndDatetime:   occurrence.EndDatetime,
		})
	}
	return merged
}

// ConsolidateOccurrences rewrites every event's occurrence rows as their
// merged windows. This is a maintenance operation, not part of ingestion.
func ConsolidateOccurrences(s Store) (int, error) {
	events, err := s.ListEvents()
	if err != nil {
		return 0, err
	}

	consolidated := 0
	for _, event := range events {
		occurrences, err := s.ListOccurrences(event.Id)
		if err != nil {
			return consolidated, err
		}
		if len(occurrences) == 0 {
			continue
		}
		merged := MergeOccurrences(occurrences)
		if len(merged) == len(occurrences) {
			continue
		}
		if err := s.ReplaceOccurrences(event.Id, merged); err != nil {
			return consolidated, err
		}
		consolidated++
	}
	return consolidated, nil
}
