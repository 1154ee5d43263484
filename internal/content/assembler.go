package content

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/amishk599/autoapply/internal/model"
)

// holidayFallback replaces $days when no holiday allowance can be read.
const holidayFallback = "the offered amount of"

// maxReferencePasses bounds nested reference expansion.
const maxReferencePasses = 8

// refPattern matches @category//key# placeholders.
var refPattern = regexp.MustCompile(`@([^@#\n]+?)//([^@#\n]+?)#`)

// section pairs a library category with the snapshot field that selects its passages.
type section struct {
	category string
	items    func(model.ListingSnapshot) []string
}

var keywordSections = []section{
	{"technologies", func(s model.ListingSnapshot) []string { return s.Technologies }},
	{"skills", func(s model.ListingSnapshot) []string { return s.Involves }},
	{"industries", func(s model.ListingSnapshot) []string { return s.Industries }},
}

// Assembler composes cover letters from a Library.
type Assembler struct {
	lib *Library
}

// NewAssembler returns an assembler reading from lib.
func NewAssembler(lib *Library) *Assembler {
	return &Assembler{lib: lib}
}

// CoverLetter builds the letter for a listing: intro, title opener, keyword
// sections, benefits, work style, conclusion, then placeholder resolution.
func (a *Assembler) CoverLetter(s model.ListingSnapshot) (string, error) {
	var b strings.Builder
	b.WriteString(a.lib.Intro)
	b.WriteString(a.titleOpener(s.JobTitle))
	for _, sec := range keywordSections {
		b.WriteString(a.keywordSection(sec.category, sec.items(s)))
	}
	b.WriteString(a.benefitsSection(s.Benefits))
	b.WriteString(a.workStyle(s.OfficeRequirements, s.Locations))
	b.WriteString("\n" + a.lib.Conclusion)

	letter, err := a.resolveReferences(b.String())
	if err != nil {
		return "", err
	}
	return resolveValues(letter, s)
}

func (a *Assembler) titleOpener(jobTitle string) string {
	title := strings.ToLower(jobTitle)
	for _, e := range a.lib.Category("title").Entries() {
		if strings.Contains(title, e.Key) {
			return e.Passage
		}
	}
	return ""
}

// keywordSection appends the passage for every item with an exact (lower-cased) key.
func (a *Assembler) keywordSection(category string, items []string) string {
	cat := a.lib.Category(category)
	if cat == nil {
		return ""
	}
	var b strings.Builder
	started := false
	for _, item := range items {
		passage, ok := cat.Passage(strings.ToLower(strings.TrimSpace(item)))
		if !ok {
			continue
		}
		if !started {
			b.WriteString("\n" + cat.Base)
			started = true
		}
		b.WriteString(passage)
	}
	return b.String()
}

// benefitsSection includes each benefit passage whose key appears in any bullet, once.
func (a *Assembler) benefitsSection(bullets []string) string {
	cat := a.lib.Category("benefits")
	if cat == nil {
		return ""
	}
	lowered := make([]string, len(bullets))
	for i, bullet := range bullets {
		lowered[i] = strings.ToLower(bullet)
	}

	var b strings.Builder
	started := false
	for _, e := range cat.Entries() {
		if !containsAny(lowered, strings.ToLower(e.Key)) {
			continue
		}
		if !started {
			b.WriteString("\n" + cat.Base)
			started = true
		}
		b.WriteString(e.Passage)
	}
	return b.String()
}

func (a *Assembler) workStyle(office string, locations []string) string {
	for _, e := range a.lib.Category("work style").Entries() {
		if strings.Contains(office, e.Key) || containsAny(locations, e.Key) {
			return "\n" + e.Passage
		}
	}
	return ""
}

// resolveReferences splices each referenced passage in at its first placeholder,
// unless the text already contains it, and drops every placeholder occurrence.
// Passages that bring in placeholders of their own are expanded on the next pass.
func (a *Assembler) resolveReferences(text string) (string, error) {
	for pass := 0; pass < maxReferencePasses; pass++ {
		matches := refPattern.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			return text, nil
		}
		done := make(map[string]bool, len(matches))
		for _, m := range matches {
			placeholder := m[0]
			if done[placeholder] {
				continue
			}
			done[placeholder] = true

			passage, ok := a.lib.Lookup(m[1], m[2])
			if !ok {
				return "", &model.ReferenceError{Category: m[1], Key: m[2]}
			}
			if !strings.Contains(text, passage) {
				text = strings.Replace(text, placeholder, passage, 1)
			}
			text = strings.ReplaceAll(text, placeholder, "")
		}
	}
	return text, nil
}

func resolveValues(text string, s model.ListingSnapshot) (string, error) {
	if s.CompanyTitle == "" {
		return "", fmt.Errorf("$company: %w", model.ErrMissingValue)
	}
	if s.JobTitle == "" {
		return "", fmt.Errorf("$title: %w", model.ErrMissingValue)
	}
	text = strings.ReplaceAll(text, "$company", s.CompanyTitle)
	text = strings.ReplaceAll(text, "$title", s.JobTitle)
	text = strings.ReplaceAll(text, "$days", holidayDays(s.Benefits))
	return text, nil
}

// holidayDays reads the number before "days holiday" in the first bullet mentioning it.
func holidayDays(benefits []string) string {
	for _, bullet := range benefits {
		lower := strings.ToLower(bullet)
		idx := strings.Index(lower, "days holiday")
		if idx < 0 {
			continue
		}
		fields := strings.Fields(lower[:idx])
		if len(fields) == 0 {
			return holidayFallback
		}
		n, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			return holidayFallback
		}
		return strconv.Itoa(n)
	}
	return holidayFallback
}

func containsAny(haystacks []string, needle string) bool {
	for _, h := range haystacks {
		if strings.Contains(h, needle) {
			return true
		}
	}
	return false
}
