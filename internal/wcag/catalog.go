package wcag

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ADACompany01/adascan/internal/model"
)

// Criterion describes one WCAG success criterion.
type Criterion struct {
	// ID is the success criterion number, e.g. "1.1.1".
	ID string `json:"id"`

	// Name is the short criterion title, e.g. "Non-text Content".
	Name string `json:"name"`

	// Level is the conformance level the criterion belongs to.
	Level model.Level `json:"level"`

	// Impact is the severity assigned to violations of this criterion.
	Impact model.Impact `json:"impact"`

	// Description explains what the criterion requires.
	Description string `json:"description"`

	// Recommendation provides guidance on how to satisfy the criterion.
	Recommendation string `json:"recommendation"`
}

// catalog maps success criterion IDs to their metadata.
// This centralized mapping ensures consistent risk assessment across the
// application.
//
// Design decision: We use a map rather than embedding metadata in each
// check because:
//  1. It allows updating risk assessments without modifying check code
//  2. It provides a single source of truth for conformance levels
//  3. It makes it easy to render per-level criterion listings
var catalog = map[string]Criterion{
	// Level A - minimum conformance
	"1.1.1": {
		ID:             "1.1.1",
		Name:           "Non-text Content",
		Level:          model.LevelA,
		Impact:         model.ImpactCritical,
		Description:    "All non-text content has a text alternative that serves the equivalent purpose.",
		Recommendation: "Add descriptive alt attributes to images; use alt=\"\" for purely decorative images.",
	},
	"1.3.1": {
		ID:             "1.3.1",
		Name:           "Info and Relationships",
		Level:          model.LevelA,
		Impact:         model.ImpactSerious,
		Description:    "Information, structure, and relationships conveyed through presentation are programmatically determinable.",
		Recommendation: "Use semantic markup: label form controls, mark table headers with th, keep heading levels ordered.",
	},
	"2.4.2": {
		ID:             "2.4.2",
		Name:           "Page Titled",
		Level:          model.LevelA,
		Impact:         model.ImpactSerious,
		Description:    "Web pages have titles that describe topic or purpose.",
		Recommendation: "Provide a non-empty, descriptive <title> element.",
	},
	"2.4.4": {
		ID:             "2.4.4",
		Name:           "Link Purpose (In Context)",
		Level:          model.LevelA,
		Impact:         model.ImpactSerious,
		Description:    "The purpose of each link can be determined from the link text or its context.",
		Recommendation: "Give every link discernible text; use aria-label for icon-only links.",
	},
	"3.1.1": {
		ID:             "3.1.1",
		Name:           "Language of Page",
		Level:          model.LevelA,
		Impact:         model.ImpactSerious,
		Description:    "The default human language of each page is programmatically determinable.",
		Recommendation: "Set a valid BCP 47 language tag on the html element, e.g. lang=\"pt-BR\".",
	},
	"4.1.2": {
		ID:             "4.1.2",
		Name:           "Name, Role, Value",
		Level:          model.LevelA,
		Impact:         model.ImpactCritical,
		Description:    "User interface components have accessible names and roles exposed to assistive technologies.",
		Recommendation: "Give buttons and custom controls accessible names; title iframes.",
	},

	// Level AA - commonly required by regulation
	"1.4.3": {
		ID:             "1.4.3",
		Name:           "Contrast (Minimum)",
		Level:          model.LevelAA,
		Impact:         model.ImpactSerious,
		Description:    "Text has a contrast ratio against its background of at least 4.5:1.",
		Recommendation: "Adjust foreground or background colors until the ratio reaches 4.5:1 (3:1 for large text).",
	},
	"1.4.4": {
		ID:             "1.4.4",
		Name:           "Resize Text",
		Level:          model.LevelAA,
		Impact:         model.ImpactCritical,
		Description:    "Text can be resized up to 200 percent without loss of content or functionality.",
		Recommendation: "Remove user-scalable=no and maximum-scale restrictions from the viewport meta tag.",
	},
	"2.4.6": {
		ID:             "2.4.6",
		Name:           "Headings and Labels",
		Level:          model.LevelAA,
		Impact:         model.ImpactModerate,
		Description:    "Headings and labels describe topic or purpose.",
		Recommendation: "Start the document with a single h1 and avoid skipping heading levels.",
	},
	"3.1.2": {
		ID:             "3.1.2",
		Name:           "Language of Parts",
		Level:          model.LevelAA,
		Impact:         model.ImpactModerate,
		Description:    "The language of passages that differ from the page default is programmatically determinable.",
		Recommendation: "Wrap foreign-language passages in elements with their own lang attribute.",
	},

	// Level AAA - strictest conformance
	"1.4.6": {
		ID:             "1.4.6",
		Name:           "Contrast (Enhanced)",
		Level:          model.LevelAAA,
		Impact:         model.ImpactModerate,
		Description:    "Text has a contrast ratio against its background of at least 7:1.",
		Recommendation: "Increase color contrast beyond the AA minimum to 7:1 (4.5:1 for large text).",
	},
	"2.4.9": {
		ID:             "2.4.9",
		Name:           "Link Purpose (Link Only)",
		Level:          model.LevelAAA,
		Impact:         model.ImpactMinor,
		Description:    "The purpose of each link can be determined from the link text alone.",
		Recommendation: "Rewrite generic link text such as \"click here\" to describe the destination.",
	},
	"2.4.10": {
		ID:             "2.4.10",
		Name:           "Section Headings",
		Level:          model.LevelAAA,
		Impact:         model.ImpactMinor,
		Description:    "Section headings are used to organize the content.",
		Recommendation: "Introduce headings for each major content section.",
	},
	"3.1.5": {
		ID:             "3.1.5",
		Name:           "Reading Level",
		Level:          model.LevelAAA,
		Impact:         model.ImpactMinor,
		Description:    "Content does not require reading ability beyond lower secondary education, or a simpler version exists.",
		Recommendation: "Provide summaries or simplified versions of complex content.",
	},
}

// levelDescriptions summarizes what conforming at each level means.
var levelDescriptions = map[model.Level]string{
	model.LevelA:   "Minimum conformance: removes the most severe barriers (text alternatives, labels, page language).",
	model.LevelAA:  "Standard conformance required by most accessibility regulations: adds contrast, resize, and structure requirements.",
	model.LevelAAA: "Enhanced conformance: the strictest tier, including reading level and enhanced contrast. Rarely attainable for entire sites.",
}

// Lookup returns the criterion with the given ID.
// The second return value reports whether the criterion exists.
func Lookup(id string) (Criterion, bool) {
	c, ok := catalog[id]
	return c, ok
}

// ImpactOf returns the impact assigned to violations of the given criterion.
// Unknown criteria default to ImpactModerate so that unmapped checks are
// neither ignored nor treated as page-breaking.
func ImpactOf(id string) model.Impact {
	if c, ok := catalog[id]; ok {
		return c.Impact
	}
	return model.ImpactModerate
}

// ItemsForLevel returns the criteria a plan at the given level must satisfy.
// Levels are cumulative: AA includes all A criteria, AAA includes everything.
// The result is sorted by criterion number.
func ItemsForLevel(level model.Level) []Criterion {
	var items []Criterion
	for _, c := range catalog {
		if level.Covers(c.Level) {
			items = append(items, c)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return lessCriterionID(items[i].ID, items[j].ID)
	})
	return items
}

// LevelDescription returns a short description of the given conformance
// level, or an empty string for unknown levels.
func LevelDescription(level model.Level) string {
	return levelDescriptions[level]
}

// lessCriterionID orders criterion IDs numerically component by component,
// so that "2.4.10" sorts after "2.4.9" rather than between "2.4.1" and "2.4.2".
func lessCriterionID(a, b string) bool {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		ai, _ := strconv.Atoi(as[i])
		bi, _ := strconv.Atoi(bs[i])
		if ai != bi {
			return ai < bi
		}
	}
	return len(as) < len(bs)
}
