package reference

// FormattedCitation holds the display-ready fragments of one admissible record.
// Every fragment is either fully rendered markup or "".
type FormattedCitation struct {
	Number int `json:"number"` // 1-based rank, assigned after sorting

	Authors string `json:"authors"`
	Year    string `json:"year"`
	Title   string `json:"title"`
	Venue   string `json:"venue"`
	Volume  string `json:"volume"`   // <em>V</em>
	Issue   string `json:"issue"`    // (I)
	Pages   string `json:"pages"`    // , S–E
	DOILink string `json:"doi_link"` // <a href=...>...</a>

	SortKey string `json:"-"` // ordering only, never rendered
	Row     int    `json:"row"`
}
