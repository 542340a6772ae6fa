package domain

import "strings"

// SearchCriteria is the canonical, deduplicated query sent to the remote
// board. Built fresh per search and immutable once built.
type SearchCriteria struct {
	Tags       []string
	PageSize   int
	PageOffset int
}

// TagString joins the canonical tags for use as a query parameter.
func (c SearchCriteria) TagString() string {
	return strings.Join(c.Tags, " ")
}

// BuildCriteria merges a raw query with a user's stored preferences into
// canonical search criteria. The merge is pure and deterministic:
//
//  1. rawQuery is split on whitespace, keeping original order and dropping
//     empty tokens;
//  2. each enabled toggle rule appends its tag fragment, in rule order;
//  3. each auto tag appends in stored order;
//  4. first occurrence wins, later duplicates are dropped silently.
//
// Because duplicates are dropped, merging the same preferences twice yields
// identical criteria. Malformed tokens pass through verbatim; the remote
// board rejects invalid tag syntax.
func BuildCriteria(rawQuery string, prefs *UserPreferences, pageSize, pageOffset int) SearchCriteria {
	tags := strings.Fields(rawQuery)
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		seen[t] = struct{}{}
	}

	appendTag := func(t string) {
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}

	if prefs != nil {
		for _, r := range prefs.ToggleRules {
			if r.Enabled {
				appendTag(r.TagFragment)
			}
		}
		for _, t := range prefs.AutoTags {
			appendTag(t)
		}
	}

	return SearchCriteria{
		Tags:       tags,
		PageSize:   pageSize,
		PageOffset: pageOffset,
	}
}
