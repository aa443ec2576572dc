package entities

// PageElement is a snapshot of one matched element
type PageElement struct {
	Query string `json:"query"` // query the element was matched by
	Text  string `json:"text"`  // trimmed text content
}
