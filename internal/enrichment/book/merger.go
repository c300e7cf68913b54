package book

import (
	"slices"
)

// Merger defines the interface for merging book information from multiple sources.
type Merger interface {
	// Merge combines multiple EnricherResults into a single EnrichmentData.
	// Results are merged by priority (lower priority number = higher precedence).
	Merge(results []EnricherResult) *EnrichmentData
}

// PriorityMerger implements Merger using priority-based field selection.
// For each field, it uses the first non-empty value from the sorted results.
type PriorityMerger struct{}

// NewPriorityMerger creates a new PriorityMerger.
func NewPriorityMerger() *PriorityMerger {
	return &PriorityMerger{}
}

// Merge combines multiple EnricherResults into a single EnrichmentData.
// Results are ordered by priority (lower = higher precedence, ties keep input
// order) and each field takes the first non-empty value. Title and subtitle
// are taken together from the first source with a title. Subjects are the
// union of all sources. The input slice is not modified.
func (m *PriorityMerger) Merge(results []EnricherResult) *EnrichmentData {
	if len(results) == 0 {
		return nil
	}

	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(a, b EnricherResult) int {
		return a.Priority - b.Priority
	})

	merged := &EnrichmentData{}

	for _, result := range sorted {
		d := result.Data
		if d == nil {
			continue
		}

		// title and subtitle come from the same source
		if merged.Title == nil && d.Title != nil && *d.Title != "" {
			merged.Title = d.Title
			merged.Subtitle = d.Subtitle
		}
		merged.Description = firstString(merged.Description, d.Description)
		merged.Publisher = firstString(merged.Publisher, d.Publisher)
		merged.Language = firstString(merged.Language, d.Language)
		merged.DOI = firstString(merged.DOI, d.DOI)

		if merged.PublishDate == nil && d.PublishDate != nil {
			merged.PublishDate = d.PublishDate
		}

		if len(d.Subjects) > 0 {
			merged.Subjects = mergeStringSlices(merged.Subjects, d.Subjects)
		}

		// Authors - prefer first non-empty list
		if len(merged.Authors) == 0 && len(d.Authors) > 0 {
			merged.Authors = d.Authors
		}
	}

	return merged
}

func firstString(current, candidate *string) *string {
	if current == nil && candidate != nil && *candidate != "" {
		return candidate
	}
	return current
}

// mergeStringSlices merges two string slices, removing duplicates.
func mergeStringSlices(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range slices.Concat(a, b) {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	return result
}
