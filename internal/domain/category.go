package domain

// Category is a user-owned, ordered collection of stations. IDs are generated
// locally and are unique within the user's category list. A station appears at
// most once per category.
type Category struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Stations []Station `json:"stations"`
}

// Contains reports whether the category holds a station with the given UUID.
func (c Category) Contains(stationUUID string) bool {
	for _, s := range c.Stations {
		if s.StationUUID == stationUUID {
			return true
		}
	}
	return false
}
