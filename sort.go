package bibweb

import (
	"sort"
	"strconv"
)

// yearMissing is the sentinel for records without a usable year field.
const yearMissing = 1<<32 - 1

// YearInt returns the record's year as an integer, or yearMissing when
// the field is absent or not numeric.
func (r Record) YearInt() int {
	y, err := strconv.Atoi(r.Field("year"))
	if err != nil {
		return yearMissing
	}
	return y
}

// sortedYears returns the distinct usable years of recs, newest first.
// Records without a year do not contribute; an empty result simply means
// there is nothing to group.
func sortedYears(recs []Record) []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range recs {
		y := r.YearInt()
		if y == yearMissing || seen[y] {
			continue
		}
		seen[y] = true
		years = append(years, y)
	}
	sort.Slice(years, func(i, j int) bool { return years[i] > years[j] })
	return years
}
