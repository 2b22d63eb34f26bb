package ui

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"adept/domain/refine"
)

// SpecMarkdown renders a specification as a markdown document
func SpecMarkdown(spec refine.Specification) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", spec.Title)
	fmt.Fprintf(&b, "## Problem\n\n%s\n\n", spec.Problem)
	fmt.Fprintf(&b, "## Vision\n\n%s\n\n", spec.Vision)

	b.WriteString("## User Stories\n\n")
	for _, story := range spec.UserStories {
		fmt.Fprintf(&b, "- %s\n", story)
	}
	b.WriteString("\n## Acceptance Criteria\n\n")
	for _, criterion := range spec.AcceptanceCriteria {
		fmt.Fprintf(&b, "- %s\n", criterion)
	}

	fmt.Fprintf(&b, "\n## Tech Stack Recommendation\n\n%s\n\n", spec.TechStackRecommendation)
	fmt.Fprintf(&b, "## Risk Analysis\n\n%s\n", spec.RiskAnalysis)

	return b.String()
}

// SpecHTML renders a specification as an HTML fragment
func SpecHTML(spec refine.Specification) string {
	// parser instances are single-use
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(SpecMarkdown(spec)))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.Render(doc, renderer))
}
