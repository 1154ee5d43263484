package listing

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/amishk599/autoapply/internal/model"
	"github.com/amishk599/autoapply/internal/pagetest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSnapshot_FullListing(t *testing.T) {
	page := &pagetest.Page{
		Texts: map[string]string{
			FieldJobTitle:     "Backend Engineer",
			FieldCompanyTake:  "Otta's take on Acme",
			FieldTechnologies: "Go\nPostgreSQL\n\nKubernetes",
			FieldOffice:       "Hybrid: 2 days in office",
			FieldSalary:       "£65k – £80k",
		},
		Lists: map[string][]string{
			FieldLocation:    {"London", "Remote (UK)"},
			FieldSector:      {"Fintech"},
			FieldBenefit:     {"25 days holiday a year"},
			FieldValue:       {"Ownership"},
			FieldInvolves:    {"Testing"},
			FieldRequirement: {"3+ years Go"},
		},
		Attrs: map[string]string{
			jobCardLinkSelector + "@href": "https://acme.example/jobs/1",
		},
	}

	got := NewExtractor(page, time.Second, discardLogger()).Snapshot(context.Background())
	want := model.ListingSnapshot{
		JobTitle:           "Backend Engineer",
		CompanyTitle:       "Acme",
		Technologies:       []string{"Go", "PostgreSQL", "Kubernetes"},
		OfficeRequirements: "Hybrid: 2 days in office",
		Salary:             "£65",
		Locations:          []string{"London", "Remote (UK)"},
		Industries:         []string{"Fintech"},
		Benefits:           []string{"25 days holiday a year"},
		Values:             []string{"Ownership"},
		Involves:           []string{"Testing"},
		Requirements:       []string{"3+ years Go"},
		WebLink:            "https://acme.example/jobs/1",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if !got.Complete() {
		t.Error("expected complete snapshot")
	}
}

func TestSnapshot_EmptyPageIsIncomplete(t *testing.T) {
	got := NewExtractor(&pagetest.Page{}, time.Second, discardLogger()).Snapshot(context.Background())
	if got.Complete() {
		t.Errorf("expected incomplete snapshot, got %+v", got)
	}
	if got.WebLink != "" || got.Salary != "" || len(got.Technologies) != 0 {
		t.Errorf("expected empty fields, got %+v", got)
	}
}

func TestSnapshot_CompanyWithoutJobTitleIsIncomplete(t *testing.T) {
	page := &pagetest.Page{Texts: map[string]string{FieldCompanyTake: "Otta's take on Acme"}}
	got := NewExtractor(page, time.Second, discardLogger()).Snapshot(context.Background())
	if got.CompanyTitle != "Acme" {
		t.Errorf("CompanyTitle = %q, want Acme", got.CompanyTitle)
	}
	if got.Complete() {
		t.Error("snapshot without job title should be incomplete")
	}
}

func TestCompanyTitle(t *testing.T) {
	tests := map[string]string{
		"Otta's take on Acme":             "Acme",
		"Otta's take on Otta's take on X": "X",
		"Acme Ltd":                        "Acme Ltd",
		"":                                "",
	}
	for in, want := range tests {
		if got := companyTitle(in); got != want {
			t.Errorf("companyTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFeed(t *testing.T) {
	page := &pagetest.Page{}
	feed := NewFeed(page, "https://app.example/jobs", time.Millisecond)

	if err := feed.Restart(context.Background()); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if err := feed.Next(context.Background()); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if diff := cmp.Diff([]string{"https://app.example/jobs"}, page.Navigations); diff != "" {
		t.Errorf("navigations mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"//*[@data-testid='next-button']"}, page.Clicks); diff != "" {
		t.Errorf("clicks mismatch (-want +got):\n%s", diff)
	}
}
