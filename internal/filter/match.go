// Package filter implements the record filtering, deduplication and sorting
// stages applied to scraped job tables.
package filter

import "regexp"

// matches reports whether field contains the pattern. A nil field never
// matches, so it survives exclusion and fails inclusion.
func matches(re *regexp.Regexp, field *string) bool {
	if field == nil {
		return false
	}
	return re.MatchString(*field)
}
