// Package templates renders the two form screens and their htmx fragments.
//
// NOTE: In a full project these would be .templ files compiled via `templ
// generate`. They are inlined here as html/template for zero-codegen
// portability; each exported function still returns a templ.Component so
// handlers render them through the same contract either way.
package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/taxdesk/schedule-generator/internal/domain"
	"github.com/taxdesk/schedule-generator/internal/pipeline"
	"github.com/taxdesk/schedule-generator/internal/schedform"
)

// FieldView is one renderable input, prepared by BuildFields so the
// template stays dumb.
type FieldView struct {
	Name     string
	Label    string
	Kind     schedform.Kind
	Required bool
	Value    string
	Checked  bool
	Error    string
	Choices  []string
	Section  string // non-empty opens a new section card before this field
}

// FormView is everything one form screen needs to render.
type FormView struct {
	Schedule   domain.ScheduleType
	Title      string
	Fields     []FieldView
	Status     domain.ConnectionStatus
	Info       *domain.ServerInfo
	Phase      pipeline.Phase
	FailKind   pipeline.FailureKind
	Diagnostic string
	TotalsC    *domain.ScheduleCTotals
	TotalsE    *domain.ScheduleETotals
	Drafts     []domain.Draft
}

// sectionStarts maps the field that opens each section card to its heading.
var sectionStarts = map[domain.ScheduleType]map[string]string{
	domain.ScheduleC: {
		"name":                      "Personal Information",
		"principalBusinessActivity": "Business Information",
		"grossReceipts":             "Part I - Income",
		"advertising":               "Part II - Expenses",
		"vehicleUsed":               "Part IV - Information on Your Vehicle",
		"otherExpense1Desc":         "Part V - Other Expenses",
	},
	domain.ScheduleE: {
		"name":          "Personal Information",
		"property1Type": "Property 1",
		"property2Type": "Property 2",
		"property3Type": "Property 3",
	},
}

// BuildFields flattens the schema plus current state into renderable rows.
func BuildFields(st *schedform.State) []FieldView {
	schema := st.Schema()
	starts := sectionStarts[schema.Schedule]
	out := make([]FieldView, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		fv := FieldView{
			Name:     f.Name,
			Label:    f.Label,
			Kind:     f.Kind,
			Required: f.Required,
			Error:    st.Err(f.Name),
			Choices:  f.Choices,
			Section:  starts[f.Name],
		}
		if f.Kind == schedform.Flag {
			fv.Checked = st.GetFlag(f.Name)
		} else {
			fv.Value = st.Get(f.Name)
		}
		out = append(out, fv)
	}
	return out
}

// component adapts a named template execution to the templ contract.
func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}

// Index renders the template-selection screen.
func Index() templ.Component { return component("index", nil) }

// FormPage renders a full form screen.
func FormPage(v FormView) templ.Component { return component("form", v) }

// Totals renders the live summary fragment (htmx swap target).
func Totals(v FormView) templ.Component { return component("totals", v) }

// Status renders the connection badge fragment.
func Status(v FormView) templ.Component { return component("status", v) }

// DraftList renders the saved-drafts fragment.
func DraftList(v FormView) templ.Component { return component("drafts", v) }

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"money":    money,
	"isText":   func(k schedform.Kind) bool { return k == schedform.Text },
	"isAmount": func(k schedform.Kind) bool { return k == schedform.Amount },
	"isFlag":   func(k schedform.Kind) bool { return k == schedform.Flag },
	"isChoice": func(k schedform.Kind) bool { return k == schedform.Choice },
	"isDate":   func(k schedform.Kind) bool { return k == schedform.Date },
}).Parse(pageHTML))

const pageHTML = `
{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.}}</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<link rel="preconnect" href="https://fonts.googleapis.com">
<link href="https://fonts.googleapis.com/css2?family=IBM+Plex+Mono:wght@400;500;600&family=IBM+Plex+Sans:wght@300;400;500;600&display=swap" rel="stylesheet">
<style>
  :root {
    --ink: #0d1117;
    --paper: #f5f0e8;
    --ledger: #e8e0cc;
    --accent: #c0392b;
    --accent2: #2c6e49;
    --muted: #6b5e4e;
    --rule: #b8a898;
  }
  * { box-sizing: border-box; }
  body {
    background: var(--paper);
    color: var(--ink);
    font-family: 'IBM Plex Sans', sans-serif;
    margin: 0;
    min-height: 100vh;
  }
  .wrap { max-width: 880px; margin: 0 auto; padding: 24px 16px 64px; }
  .mono { font-family: 'IBM Plex Mono', monospace; }
  .card {
    background: rgba(255,255,255,0.8);
    border: 1px solid var(--ledger);
    border-left: 4px solid var(--ink);
    padding: 16px;
    margin-bottom: 20px;
  }
  .section-header {
    font-family: 'IBM Plex Mono', monospace;
    font-size: 0.7rem;
    font-weight: 600;
    letter-spacing: 0.18em;
    text-transform: uppercase;
    color: var(--muted);
    border-bottom: 1px solid var(--rule);
    padding-bottom: 4px;
    margin: 0 0 16px;
  }
  .field { margin-bottom: 12px; }
  .field-label {
    font-family: 'IBM Plex Mono', monospace;
    font-size: 0.6rem;
    font-weight: 600;
    letter-spacing: 0.1em;
    text-transform: uppercase;
    color: var(--muted);
    display: block;
    margin-bottom: 2px;
  }
  input, select {
    background: white;
    border: 1px solid var(--rule);
    border-bottom: 2px solid var(--ink);
    padding: 6px 8px;
    font-family: 'IBM Plex Mono', monospace;
    font-size: 0.85rem;
    width: 100%;
    outline: none;
  }
  input:focus, select:focus { border-bottom-color: var(--accent); }
  input.invalid { border-bottom-color: var(--accent); background: #fdf0ee; }
  .field-error { color: var(--accent); font-size: 0.75rem; margin: 4px 0 0; }
  .btn {
    font-family: 'IBM Plex Mono', monospace;
    font-weight: 600;
    font-size: 0.8rem;
    letter-spacing: 0.08em;
    padding: 8px 18px;
    border: 2px solid var(--ink);
    cursor: pointer;
    text-transform: uppercase;
    background: white;
  }
  .btn-primary { background: var(--ink); color: white; }
  .btn-primary:hover { background: var(--accent); border-color: var(--accent); }
  .btn-primary:disabled { opacity: 0.5; cursor: not-allowed; }
  .btn-danger { background: white; color: var(--accent); border-color: var(--accent); }
  .banner { border: 2px solid; padding: 12px 16px; margin-bottom: 20px; font-size: 0.9rem; }
  .banner-error { border-color: var(--accent); background: #fdf0ee; color: var(--accent); }
  .banner-success { border-color: var(--accent2); background: #eef7f0; color: var(--accent2); }
  .dot { display: inline-block; width: 10px; height: 10px; border-radius: 50%; margin-right: 6px; }
  .dot-connected { background: var(--accent2); }
  .dot-disconnected { background: var(--accent); }
  .dot-checking { background: #c9a227; }
  .totals-row { display: flex; justify-content: space-between; font-size: 1rem; padding: 4px 0; }
  .totals-net { font-weight: 600; font-size: 1.1rem; border-top: 2px solid var(--ink); margin-top: 6px; padding-top: 8px; }
  .draft-row { display: flex; justify-content: space-between; align-items: center; border-bottom: 1px solid var(--ledger); padding: 6px 0; font-size: 0.85rem; }
  a { color: var(--ink); }
</style>
</head>
<body><div class="wrap">{{end}}

{{define "foot"}}</div></body></html>{{end}}

{{define "index"}}{{template "head" "Tax Schedule Generator"}}
<h1 class="mono">TAX SCHEDULE GENERATOR</h1>
<p>Select the form to fill. The completed PDF is produced by the local
generation service and downloaded by your browser.</p>
<div class="card">
  <h2 class="section-header">Schedule C</h2>
  <p>Profit or Loss From Business (Sole Proprietorship)</p>
  <a class="btn btn-primary" href="/schedule-c">Open Schedule C</a>
</div>
<div class="card">
  <h2 class="section-header">Schedule E</h2>
  <p>Supplemental Income and Loss (Rental Real Estate and Royalties)</p>
  <a class="btn btn-primary" href="/schedule-e">Open Schedule E</a>
</div>
{{template "foot"}}{{end}}

{{define "status"}}
<div id="status">
  {{if eq .Status.String "connected"}}
    <span class="dot dot-connected"></span>Generation service: Connected
  {{else if eq .Status.String "disconnected"}}
    <span class="dot dot-disconnected"></span>Generation service: Disconnected
  {{else}}
    <span class="dot dot-checking"></span>Generation service: Checking...
  {{end}}
  <button type="button" class="btn" style="margin-left:12px"
          hx-get="/{{.Schedule}}/status" hx-target="#status" hx-swap="outerHTML">
    Test Connection
  </button>
  {{if .Info}}
    <p class="mono" style="font-size:0.7rem;color:var(--muted);margin:6px 0 0">
      template: {{if .Info.TemplateExists}}found{{else}}missing{{end}} ·
      pdf library: {{if .Info.PDFLibrary}}yes{{else}}no{{end}} ·
      reportlab: {{if .Info.Reportlab}}yes{{else}}no{{end}}
    </p>
  {{end}}
</div>
{{end}}

{{define "totals"}}
<div id="totals">
  {{if .TotalsC}}
    <div class="totals-row"><span>Gross Income:</span><span class="mono">{{money .TotalsC.GrossIncome}}</span></div>
    <div class="totals-row"><span>Total Expenses:</span><span class="mono">{{money .TotalsC.TotalExpenses}}</span></div>
    <div class="totals-row totals-net"><span>Net Profit (Loss):</span><span class="mono">{{money .TotalsC.NetProfit}}</span></div>
  {{end}}
  {{if .TotalsE}}
    <div class="totals-row"><span>Total Income:</span><span class="mono">{{money .TotalsE.TotalIncome}}</span></div>
    <div class="totals-row"><span>Total Expenses:</span><span class="mono">{{money .TotalsE.TotalExpenses}}</span></div>
    <div class="totals-row totals-net"><span>Net Income (Loss):</span><span class="mono">{{money .TotalsE.NetIncome}}</span></div>
  {{end}}
</div>
{{end}}

{{define "drafts"}}
<div id="drafts">
  {{if .Drafts}}
    {{range .Drafts}}
      <div class="draft-row">
        <span>{{.Title}} <span class="mono" style="color:var(--muted)">{{.UpdatedAt.Format "2006-01-02 15:04"}}</span></span>
        <span>
          <a class="btn" href="/{{$.Schedule}}?draft={{.ID}}">Load</a>
          <button type="button" class="btn btn-danger"
                  hx-delete="/drafts/{{.ID}}?schedule={{$.Schedule}}"
                  hx-target="#drafts" hx-swap="outerHTML">Delete</button>
        </span>
      </div>
    {{end}}
  {{else}}
    <p style="color:var(--muted);font-size:0.85rem">No saved drafts.</p>
  {{end}}
</div>
{{end}}

{{define "form"}}{{template "head" .Title}}
<p class="mono" style="font-size:0.75rem"><a href="/">&larr; Back to form selection</a></p>
<h1 class="mono">{{.Title}}</h1>

{{if eq .Phase.String "succeeded"}}
<div class="banner banner-success">PDF has been generated and downloaded successfully!</div>
{{end}}
{{if eq .Phase.String "failed"}}
<div class="banner banner-error">
  {{.Diagnostic}}
  <form method="post" action="/{{.Schedule}}/dismiss" style="display:inline;margin-left:12px">
    <button type="submit" class="btn btn-danger">Dismiss</button>
  </form>
</div>
{{end}}

<div class="card">{{template "status" .}}</div>

<form method="post" action="/{{.Schedule}}/generate">
{{range .Fields}}
  {{if .Section}}
    {{if ne .Name "name"}}</div>{{end}}
    <div class="card"><h2 class="section-header">{{.Section}}</h2>
  {{end}}
  <div class="field">
    {{if isFlag .Kind}}
      <label class="field-label" for="{{.Name}}">
        <input type="checkbox" id="{{.Name}}" name="{{.Name}}" style="width:auto;margin-right:6px"
               {{if .Checked}}checked{{end}}
               hx-post="/{{$.Schedule}}/field" hx-vals='{"field":"{{.Name}}"}'
               hx-target="#totals" hx-swap="outerHTML">
        {{.Label}}
      </label>
    {{else if isChoice .Kind}}
      <label class="field-label" for="{{.Name}}">{{.Label}}</label>
      <select id="{{.Name}}" name="{{.Name}}"
              hx-post="/{{$.Schedule}}/field" hx-vals='{"field":"{{.Name}}"}'
              hx-target="#totals" hx-swap="outerHTML">
        {{$sel := .Value}}
        {{if not .Required}}<option value="" {{if eq $sel ""}}selected{{end}}></option>{{end}}
        {{range .Choices}}
          <option value="{{.}}" {{if eq . $sel}}selected{{end}}>{{.}}</option>
        {{end}}
      </select>
    {{else}}
      <label class="field-label" for="{{.Name}}">{{.Label}}{{if .Required}} *{{end}}</label>
      <input id="{{.Name}}" name="{{.Name}}" value="{{.Value}}"
             {{if isDate .Kind}}type="date"{{else}}type="text"{{end}}
             {{if .Error}}class="invalid"{{end}}
             hx-post="/{{$.Schedule}}/field" hx-vals='{"field":"{{.Name}}"}'
             hx-trigger="change" hx-target="#totals" hx-swap="outerHTML">
    {{end}}
    {{if .Error}}<p class="field-error">{{.Error}}</p>{{end}}
  </div>
{{end}}
</div>

<div class="card">
  <h2 class="section-header">Summary</h2>
  {{template "totals" .}}
</div>

<div class="card">
  <button type="submit" class="btn btn-primary"
          {{if eq .Phase.String "submitting"}}disabled{{end}}>
    Generate {{.Title}} PDF
  </button>
  <a class="btn" href="/{{.Schedule}}/summary.pdf" style="margin-left:8px">Draft Summary PDF</a>
  <p style="font-size:0.8rem;color:var(--muted)">* Required fields. The
  generation service must be running before submitting.</p>
</div>
</form>

<div class="card">
  <h2 class="section-header">Saved Drafts</h2>
  <form method="post" action="/{{.Schedule}}/drafts" style="display:flex;gap:8px;margin-bottom:12px">
    <input name="title" placeholder="Draft title" style="flex:1">
    <button type="submit" class="btn">Save Draft</button>
  </form>
  {{template "drafts" .}}
</div>
{{template "foot"}}{{end}}
`
