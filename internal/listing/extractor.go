package listing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/amishk599/autoapply/internal/model"
)

// data-testid values of the listing page.
const (
	FieldJobTitle     = "job-title"
	FieldCompanyTake  = "ottas-take"
	FieldTechnologies = "job-technology-used"
	FieldOffice       = "office-day-requirements"
	FieldSalary       = "salary-section"
	FieldLocation     = "job-location-tag"
	FieldSector       = "company-sector-tag"
	FieldBenefit      = "company-benefit-bullet"
	FieldValue        = "company-value-bullet"
	FieldInvolves     = "job-involves-bullet"
	FieldRequirement  = "job-requirements-bullet"
	FieldJobCard      = "job-card"
	FieldNextButton   = "next-button"
)

const (
	companyTakePrefix   = "Otta's take on "
	jobCardLinkSelector = "[data-testid='" + FieldJobCard + "'] a"
)

// Extractor reads a ListingSnapshot from the current page.
type Extractor struct {
	page   model.Page
	wait   time.Duration
	logger *slog.Logger
}

// NewExtractor returns an extractor that waits up to wait for a listing to render.
func NewExtractor(page model.Page, wait time.Duration, logger *slog.Logger) *Extractor {
	return &Extractor{page: page, wait: wait, logger: logger}
}

// Snapshot gathers the listing facts. Missing fields come back empty; a page
// that never shows a job title yields an incomplete snapshot.
func (e *Extractor) Snapshot(ctx context.Context) model.ListingSnapshot {
	err := e.page.WaitFor(ctx, func(ctx context.Context) bool {
		return e.page.Text(ctx, FieldJobTitle) != ""
	}, e.wait)
	if err != nil {
		e.logger.Debug("no job title rendered", "error", err)
	}

	s := model.ListingSnapshot{
		JobTitle:           strings.TrimSpace(e.page.Text(ctx, FieldJobTitle)),
		CompanyTitle:       companyTitle(e.page.Text(ctx, FieldCompanyTake)),
		Technologies:       splitLines(e.page.Text(ctx, FieldTechnologies)),
		OfficeRequirements: strings.TrimSpace(e.page.Text(ctx, FieldOffice)),
		Salary:             salary(e.page.Text(ctx, FieldSalary)),
		Locations:          e.page.TextList(ctx, FieldLocation),
		Industries:         e.page.TextList(ctx, FieldSector),
		Benefits:           e.page.TextList(ctx, FieldBenefit),
		Values:             e.page.TextList(ctx, FieldValue),
		Involves:           e.page.TextList(ctx, FieldInvolves),
		Requirements:       e.page.TextList(ctx, FieldRequirement),
	}
	if link, ok := e.page.Attribute(ctx, jobCardLinkSelector, "href"); ok {
		s.WebLink = link
	}

	if s.Complete() {
		e.logger.Info("data gathered", "listing", s.String())
	}
	return s
}

// companyTitle takes the text after the last "Otta's take on ".
func companyTitle(take string) string {
	if i := strings.LastIndex(take, companyTakePrefix); i >= 0 {
		take = take[i+len(companyTakePrefix):]
	}
	return strings.TrimSpace(take)
}

// salary keeps the text before the first "k", e.g. "£65k – £80k" → "£65".
func salary(text string) string {
	if i := strings.Index(text, "k"); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
