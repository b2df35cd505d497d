// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evaluate

import (
	"bytes"
	"text/template"
)

// verifySystemTmpl carries the reference under comparison.
var verifySystemTmpl = template.Must(template.New("verify-system").Parse(`Compare reference with new paper:
REFERENCE: {{.Title}}
{{.Excerpt}}`))

// verifyUserTmpl carries the new abstract and the three fixed questions.
var verifyUserTmpl = template.Must(template.New("verify-user").Parse(`Does this NEW PAPER ABSTRACT:
{{.Abstract}}

1. Show NOVELTY beyond reference? (Y/N + reason)
2. Have BETTER METHODOLOGY? (Y/N + reason)
3. CONTRADICT reference? (Y/N + reason)`))

// assessSystemTmpl embeds the verification summary.
var assessSystemTmpl = template.Must(template.New("assess-system").Parse(`Analyze paper publishability using these reference checks:
{{.Summary}}`))

type verifyData struct {
	Title    string
	Excerpt  string
	Abstract string
}

type assessData struct {
	Summary string
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
