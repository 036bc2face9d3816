package domain

// Country is a directory-wide country aggregate from /countries.
type Country struct {
	Name         string `json:"name"`
	ISO3166      string `json:"iso_3166_1"`
	StationCount int    `json:"stationcount"`
}

// Language is a directory-wide language aggregate from /languages.
type Language struct {
	Name         string `json:"name"`
	StationCount int    `json:"stationcount"`
}

// Tag is a directory-wide tag aggregate from /tags.
type Tag struct {
	Name         string `json:"name"`
	StationCount int    `json:"stationcount"`
}

// Stats is the upstream /stats payload.
type Stats struct {
	Stations       int `json:"stations"`
	StationsBroken int `json:"stations_broken"`
	Tags           int `json:"tags"`
	Countries      int `json:"countries"`
	Languages      int `json:"languages"`
	ClicksLastHour int `json:"clicks_last_hour"`
	ClicksLastDay  int `json:"clicks_last_day"`
}
