package crossref

// worksResponse is the envelope of the /works endpoint.
type worksResponse struct {
	Status  string `json:"status"`
	Message struct {
		TotalResults int    `json:"total-results"`
		Items        []Work `json:"items"`
	} `json:"message"`
}

// Work is a single bibliographic record from the Crossref works index.
// Only the fields the reconciler consumes are decoded.
type Work struct {
	DOI             string    `json:"DOI"`
	Title           []string  `json:"title"`
	Author          []Author  `json:"author"`
	Publisher       string    `json:"publisher"`
	ContainerTitle  []string  `json:"container-title"`
	Volume          string    `json:"volume"`
	Issue           string    `json:"issue"`
	Page            string    `json:"page"`
	PublishedPrint  DateParts `json:"published-print"`
	PublishedOnline DateParts `json:"published-online"`
}

// Author is a contributor entry on a work.
type Author struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

// DateParts is Crossref's nested date representation:
// {"date-parts": [[year, month, day]]}.
type DateParts struct {
	DateParts [][]int `json:"date-parts"`
}

// Year returns the year component, or 0 when absent.
func (d DateParts) Year() int {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return 0
	}
	return d.DateParts[0][0]
}
