package dag

import "sort"

// sortedValues returns the map's values ordered by key, so walks over
// variant tables are deterministic.
func sortedValues(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	values := make([]string, 0, len(keys))
	for _, key := range keys {
		values = append(values, m[key])
	}
	return values
}
