package entities

// PageInfo holds what was rendered when a case finished
type PageInfo struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}
