package types

// Stats holds the admin dashboard counters.
type Stats struct {
	Users      int `json:"users"`
	Books      int `json:"books"`
	Categories int `json:"categories"`
	Messages   int `json:"messages"`
}
