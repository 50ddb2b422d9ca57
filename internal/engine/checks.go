package engine

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/language"

	"github.com/ADACompany01/adascan/internal/model"
	"github.com/ADACompany01/adascan/internal/wcag"
)

// Check is one accessibility check run against a parsed document.
//
// Design decision: We use an interface rather than function types because:
//  1. It provides a Name() method for issue IDs and logging
//  2. It allows checks to carry configuration state
//  3. It enables testing the evaluator with stub checks
type Check interface {
	// Name returns the check's identifier, used as the issue ID prefix.
	Name() string

	// Run inspects the document and returns any issues found,
	// in document order.
	Run(doc *Document) []model.Issue
}

// DefaultChecks returns the standard check set in execution order.
func DefaultChecks() []Check {
	return []Check{
		imageAltCheck{},
		formLabelCheck{},
		pageTitleCheck{},
		pageLangCheck{},
		headingStructureCheck{},
		linkTextCheck{},
		buttonNameCheck{},
		viewportZoomCheck{},
		iframeTitleCheck{},
		tableHeaderCheck{},
	}
}

// newIssue builds a system issue for a check finding. The ordinal keeps IDs
// stable and unique within one evaluation; impact comes from the criterion
// catalog so risk assessment stays centralized.
func newIssue(check string, ordinal int, criterion, label, location string) model.Issue {
	return model.Issue{
		ID:        fmt.Sprintf("%s-%d", check, ordinal),
		Label:     label,
		Priority:  model.PriorityUnselected,
		Kind:      model.KindSystem,
		Criterion: criterion,
		Impact:    wcag.ImpactOf(criterion),
		Location:  location,
	}
}

// imageAltCheck flags images without a text alternative (WCAG 1.1.1).
// An empty alt attribute is allowed: it marks the image as decorative.
type imageAltCheck struct{}

func (imageAltCheck) Name() string { return "image-alt" }

func (c imageAltCheck) Run(doc *Document) []model.Issue {
	var issues []model.Issue
	for _, img := range doc.Elements("img") {
		if hasAttr(img, "alt") || getAttr(img, "role") == "presentation" {
			continue
		}
		if getAttr(img, "aria-label") != "" || getAttr(img, "aria-labelledby") != "" {
			continue
		}
		issues = append(issues, newIssue(c.Name(), len(issues)+1, "1.1.1",
			"Image is missing a text alternative", snippet(img)))
	}
	return issues
}

// formLabelCheck flags form controls without an accessible label (WCAG 1.3.1).
type formLabelCheck struct{}

func (formLabelCheck) Name() string { return "form-label" }

// inputTypesWithoutLabel lists input types that carry their own accessible
// name or are invisible, and therefore need no associated label element.
var inputTypesWithoutLabel = map[string]bool{
	"hidden": true,
	"submit": true,
	"reset":  true,
	"button": true,
	"image":  true,
}

func (c formLabelCheck) Run(doc *Document) []model.Issue {
	// IDs referenced by <label for="...">.
	labelFor := make(map[string]bool)
	for _, label := range doc.Elements("label") {
		if id := getAttr(label, "for"); id != "" {
			labelFor[id] = true
		}
	}

	var issues []model.Issue
	for _, control := range doc.Elements("input", "select", "textarea") {
		if control.Data == "input" && inputTypesWithoutLabel[strings.ToLower(getAttr(control, "type"))] {
			continue
		}
		if getAttr(control, "aria-label") != "" ||
			getAttr(control, "aria-labelledby") != "" ||
			getAttr(control, "title") != "" {
			continue
		}
		if id := getAttr(control, "id"); id != "" && labelFor[id] {
			continue
		}
		if wrappedInLabel(control) {
			continue
		}
		issues = append(issues, newIssue(c.Name(), len(issues)+1, "1.3.1",
			"Form control has no associated label", snippet(control)))
	}
	return issues
}

// wrappedInLabel reports whether the control sits inside a <label> element.
func wrappedInLabel(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "label" {
			return true
		}
	}
	return false
}

// pageTitleCheck flags documents without a descriptive title (WCAG 2.4.2).
type pageTitleCheck struct{}

func (pageTitleCheck) Name() string { return "page-title" }

func (c pageTitleCheck) Run(doc *Document) []model.Issue {
	if doc.Title != "" {
		return nil
	}
	return []model.Issue{newIssue(c.Name(), 1, "2.4.2",
		"Page has no title", "<title>")}
}

// pageLangCheck flags documents without a valid default language (WCAG 3.1.1).
// Language tags are validated with golang.org/x/text/language so that
// misspelled tags (e.g. lang="english") are caught, not just missing ones.
type pageLangCheck struct{}

func (pageLangCheck) Name() string { return "page-lang" }

func (c pageLangCheck) Run(doc *Document) []model.Issue {
	if doc.Lang == "" {
		return []model.Issue{newIssue(c.Name(), 1, "3.1.1",
			"Document language is not declared", "<html>")}
	}
	if _, err := language.Parse(doc.Lang); err != nil {
		return []model.Issue{newIssue(c.Name(), 1, "3.1.1",
			fmt.Sprintf("Document language %q is not a valid BCP 47 tag", doc.Lang), "<html>")}
	}
	return nil
}

// headingStructureCheck flags missing h1 elements and skipped heading
// levels (WCAG 2.4.6).
type headingStructureCheck struct{}

func (headingStructureCheck) Name() string { return "heading-structure" }

func (c headingStructureCheck) Run(doc *Document) []model.Issue {
	headings := doc.Elements("h1", "h2", "h3", "h4", "h5", "h6")

	var issues []model.Issue
	sawH1 := false
	prev := 0
	for _, h := range headings {
		level, err := strconv.Atoi(strings.TrimPrefix(h.Data, "h"))
		if err != nil {
			continue
		}
		if level == 1 {
			sawH1 = true
		}
		if prev > 0 && level > prev+1 {
			issues = append(issues, newIssue(c.Name(), len(issues)+1, "2.4.6",
				fmt.Sprintf("Heading level jumps from h%d to h%d", prev, level), snippet(h)))
		}
		prev = level
	}

	if len(headings) > 0 && !sawH1 {
		issues = append(issues, newIssue(c.Name(), len(issues)+1, "2.4.6",
			"Page has headings but no h1", snippet(headings[0])))
	}
	return issues
}

// genericLinkText lists link texts that reveal nothing about the target.
// Matched case-insensitively after trimming.
var genericLinkText = map[string]bool{
	"click here": true,
	"here":       true,
	"read more":  true,
	"more":       true,
	"link":       true,
}

// linkTextCheck flags links without discernible text (WCAG 2.4.4) and
// links whose text is too generic to stand alone (WCAG 2.4.9).
type linkTextCheck struct{}

func (linkTextCheck) Name() string { return "link-text" }

func (c linkTextCheck) Run(doc *Document) []model.Issue {
	var issues []model.Issue
	for _, a := range doc.Elements("a") {
		if getAttr(a, "href") == "" {
			continue
		}

		text := nodeText(a)
		if text == "" {
			text = getAttr(a, "aria-label")
		}
		if text == "" {
			// An image link is named by its alt text.
			for _, img := range (&Document{root: a}).Elements("img") {
				if alt := strings.TrimSpace(getAttr(img, "alt")); alt != "" {
					text = alt
					break
				}
			}
		}

		if text == "" {
			issues = append(issues, newIssue(c.Name(), len(issues)+1, "2.4.4",
				"Link has no discernible text", snippet(a)))
			continue
		}
		if genericLinkText[strings.ToLower(text)] {
			issues = append(issues, newIssue(c.Name(), len(issues)+1, "2.4.9",
				fmt.Sprintf("Link text %q does not describe the destination", text), snippet(a)))
		}
	}
	return issues
}

// buttonNameCheck flags buttons without an accessible name (WCAG 4.1.2).
type buttonNameCheck struct{}

func (buttonNameCheck) Name() string { return "button-name" }

func (c buttonNameCheck) Run(doc *Document) []model.Issue {
	var issues []model.Issue

	for _, btn := range doc.Elements("button") {
		if nodeText(btn) != "" ||
			getAttr(btn, "aria-label") != "" ||
			getAttr(btn, "aria-labelledby") != "" ||
			getAttr(btn, "title") != "" {
			continue
		}
		issues = append(issues, newIssue(c.Name(), len(issues)+1, "4.1.2",
			"Button has no accessible name", snippet(btn)))
	}

	for _, input := range doc.Elements("input") {
		typ := strings.ToLower(getAttr(input, "type"))
		if typ != "button" && typ != "submit" && typ != "reset" {
			continue
		}
		if getAttr(input, "value") != "" || getAttr(input, "aria-label") != "" {
			continue
		}
		// submit and reset have usable browser defaults; plain buttons don't.
		if typ == "button" {
			issues = append(issues, newIssue(c.Name(), len(issues)+1, "4.1.2",
				"Input button has no accessible name", snippet(input)))
		}
	}

	return issues
}

// viewportZoomCheck flags viewport meta tags that disable or restrict
// zooming (WCAG 1.4.4).
type viewportZoomCheck struct{}

func (viewportZoomCheck) Name() string { return "viewport-zoom" }

func (c viewportZoomCheck) Run(doc *Document) []model.Issue {
	var issues []model.Issue
	for _, meta := range doc.Elements("meta") {
		if !strings.EqualFold(getAttr(meta, "name"), "viewport") {
			continue
		}
		content := strings.ToLower(strings.ReplaceAll(getAttr(meta, "content"), " ", ""))
		if strings.Contains(content, "user-scalable=no") || strings.Contains(content, "user-scalable=0") {
			issues = append(issues, newIssue(c.Name(), len(issues)+1, "1.4.4",
				"Viewport disables user zooming", snippet(meta)))
			continue
		}
		if scale, ok := viewportMaxScale(content); ok && scale < 2 {
			issues = append(issues, newIssue(c.Name(), len(issues)+1, "1.4.4",
				fmt.Sprintf("Viewport restricts zooming to %gx", scale), snippet(meta)))
		}
	}
	return issues
}

// viewportMaxScale extracts the maximum-scale value from a normalized
// viewport content string.
func viewportMaxScale(content string) (float64, bool) {
	for _, part := range strings.Split(content, ",") {
		if rest, found := strings.CutPrefix(part, "maximum-scale="); found {
			if scale, err := strconv.ParseFloat(rest, 64); err == nil {
				return scale, true
			}
		}
	}
	return 0, false
}

// iframeTitleCheck flags frames without a title attribute (WCAG 4.1.2).
type iframeTitleCheck struct{}

func (iframeTitleCheck) Name() string { return "iframe-title" }

func (c iframeTitleCheck) Run(doc *Document) []model.Issue {
	var issues []model.Issue
	for _, frame := range doc.Elements("iframe") {
		if strings.TrimSpace(getAttr(frame, "title")) != "" {
			continue
		}
		issues = append(issues, newIssue(c.Name(), len(issues)+1, "4.1.2",
			"Frame has no title", snippet(frame)))
	}
	return issues
}

// tableHeaderCheck flags data tables without header cells (WCAG 1.3.1).
// Tables marked role="presentation" or role="none" are layout tables and
// are skipped.
type tableHeaderCheck struct{}

func (tableHeaderCheck) Name() string { return "table-header" }

func (c tableHeaderCheck) Run(doc *Document) []model.Issue {
	var issues []model.Issue
	for _, table := range doc.Elements("table") {
		role := strings.ToLower(getAttr(table, "role"))
		if role == "presentation" || role == "none" {
			continue
		}
		if len((&Document{root: table}).Elements("th")) > 0 {
			continue
		}
		issues = append(issues, newIssue(c.Name(), len(issues)+1, "1.3.1",
			"Data table has no header cells", snippet(table)))
	}
	return issues
}
