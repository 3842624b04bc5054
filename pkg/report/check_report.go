package report

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"statecu/entities"
)

// Section is the check result for one component of a dataset.
type Section struct {
	Component string
	Source    string
	Records   int
	Problems  []entities.Problem
}

const skeleton = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title></title>
<style>
body { font-family: sans-serif; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #999; padding: 2px 6px; text-align: left; }
td.ok { color: #2a7a2a; }
</style>
</head>
<body>
<h1></h1>
<p class="summary"></p>
<div id="sections"></div>
</body>
</html>`

// WriteCheckHTML renders the problems of each section as an HTML table.
func WriteCheckHTML(w io.Writer, title string, sections []Section) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(skeleton))
	if err != nil {
		return fmt.Errorf("report: parse skeleton: %w", err)
	}
	doc.Find("title").SetText(title)
	doc.Find("h1").SetText(title)

	total, records := 0, 0
	body := doc.Find("#sections")
	for _, s := range sections {
		total += len(s.Problems)
		records += s.Records
		body.AppendHtml(sectionHTML(s))
	}
	doc.Find("p.summary").SetText(fmt.Sprintf("%d problem(s) in %d record(s).", total, records))

	out, err := doc.Html()
	if err != nil {
		return fmt.Errorf("report: render: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func sectionHTML(s Section) string {
	esc := html.EscapeString
	var b strings.Builder
	fmt.Fprintf(&b, `<h2 data-component="%s">%s</h2>`, esc(s.Component), esc(s.Component))
	if s.Source != "" {
		fmt.Fprintf(&b, `<p class="source">%s</p>`, esc(s.Source))
	}
	fmt.Fprintf(&b, `<table class="problems" data-component="%s">`, esc(s.Component))
	b.WriteString(`<thead><tr><th>#</th><th>ID</th><th>Problem</th><th>Recommendation</th></tr></thead><tbody>`)
	if len(s.Problems) == 0 {
		fmt.Fprintf(&b, `<tr><td class="ok" colspan="4">No problems found in %d record(s).</td></tr>`, s.Records)
	}
	for i, p := range s.Problems {
		fmt.Fprintf(&b, `<tr class="problem"><td>%d</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			i+1, esc(p.ID), esc(p.Message), esc(p.Recommendation))
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}
