package model

import "strings"

// ListingSnapshot holds the facts extracted from the currently displayed listing.
// Absent text fields are empty strings.
type ListingSnapshot struct {
	JobTitle           string
	CompanyTitle       string
	Technologies       []string
	OfficeRequirements string
	Salary             string // thousands, without the "k" suffix
	Locations          []string
	Industries         []string
	Benefits           []string
	Values             []string
	Involves           []string
	Requirements       []string
	WebLink            string
}

// Complete reports whether both the job title and company title are known.
// An incomplete snapshot means the page is not a listing (e.g. the feed is exhausted).
func (s ListingSnapshot) Complete() bool {
	return strings.TrimSpace(s.JobTitle) != "" && strings.TrimSpace(s.CompanyTitle) != ""
}

func (s ListingSnapshot) String() string {
	return s.JobTitle + " at " + s.CompanyTitle
}
