package model

// RepositoryRecord is the part of a github repository kept by the collector
type RepositoryRecord struct {
	Name     string
	Language *string // nil when github reports no primary language
}

// Page is one batch of records returned by a single paginated request
type Page []RepositoryRecord

type ListingStatus string

const (
	// the last page held fewer records than requested
	ListingComplete ListingStatus = "complete"

	// a request failed after at least one page was fetched
	ListingPartial ListingStatus = "partial"

	// the first request failed, nothing was fetched
	ListingFailed ListingStatus = "failed"

	// every allowed page was full, more repositories may exist
	ListingPageLimitReached ListingStatus = "page_limit_reached"
)

// ListingResult holds the pages fetched for one owner and how the listing ended
// Err is set for partial and failed listings only
type ListingResult struct {
	Owner  string
	Pages  []Page
	Status ListingStatus
	Err    error
}

// RecordCount returns the number of records over all pages
func (r ListingResult) RecordCount() int {
	count := 0
	for _, p := range r.Pages {
		count += len(p)
	}

	return count
}

// FileDescriptor selects a local file to upload and the name it gets in the target repository
type FileDescriptor struct {
	Name string
	Path string
}

type UploadResult struct {
	Name       string
	StatusCode int
	Err        error
}

type PublishReport struct {
	Owner                string
	Repository           string
	RepositoryStatusCode int
	RepositoryErr        error
	Uploads              []UploadResult
}

// CollectResult is the outcome of one organization collected and written to disk
type CollectResult struct {
	Organization string
	Output       string
	Listing      ListingResult
	Table        Table
}

// RepositoriesResponse is the JSON body served for an owner table
type RepositoriesResponse struct {
	Owner  string        `json:"owner"`
	Status ListingStatus `json:"status"`
	Error  *APIError     `json:"error,omitempty"` // set when the listing stopped on a failure
	Rows   []TableRow    `json:"rows"`
}
