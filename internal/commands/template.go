package commands

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs provides utility functions for templates.
var templateFuncs = sprig.TxtFuncMap()

const lookTemplate = `== {{ .Title }} ==
{{ .Description }}
{{- range .Senses }}
[{{ .Sense | title }}] {{ .Text }}
{{- end }}
[Exits: {{ if .Exits }}{{ join " " .Exits }}{{ else }}none{{ end }}]
{{- range .NPCs }}
> {{ . }} is here.
{{- end }}
{{- range .Items }}
- {{ . }} lies on the ground.
{{- end }}
{{- range .Players }}
* {{ . }} is here.
{{- end }}`

const scoreTemplate = `{{ .Name }}, level {{ .Level }} {{ .Class }}
HP: {{ .HP.Current }}/{{ .HP.Max }}  Mana: {{ .Mana.Current }}/{{ .Mana.Max }}  Stamina: {{ .Stamina.Current }}/{{ .Stamina.Max }}
Experience: {{ .Experience }}{{ if .Remorts }}  Remorts: {{ .Remorts }}{{ end }}
{{- if .Catalysts }}
Catalysts:{{ range $name, $n := .Catalysts }} {{ $name | replace "_" " " }} x{{ $n }}{{ end }}
{{- end }}`

const timeTemplate = `It is {{ .Date }}.
The season of {{ .Season }}, {{ if .Daytime }}daytime{{ else }}night{{ end }}.`

const inventoryTemplate = `{{- if .Wielded }}Wielding: {{ .Wielded }}
{{ end -}}
{{- if .Items }}You are carrying:
{{- range .Items }}
  {{ . }}
{{- end }}
{{- else }}You are carrying nothing.
{{- end }}`

var templates = template.Must(parseTemplates(map[string]string{
	"look":      lookTemplate,
	"score":     scoreTemplate,
	"time":      timeTemplate,
	"inventory": inventoryTemplate,
}))

func parseTemplates(src map[string]string) (*template.Template, error) {
	root := template.New("").Funcs(templateFuncs)
	for name, text := range src {
		if _, err := root.New(name).Parse(text); err != nil {
			return nil, fmt.Errorf("parsing template %q: %w", name, err)
		}
	}
	return root, nil
}

// render executes one of the built-in templates.
func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("executing template %q: %w", name, err)
	}
	return buf.String(), nil
}

// ExpandTemplate expands a template string using the provided data.
// The data can be any struct - templates access fields via {{ .FieldName }}.
func ExpandTemplate(tmplStr string, data any) (string, error) {
	// Quick check: if no template markers, return as-is
	if !strings.Contains(tmplStr, "{{") {
		return tmplStr, nil
	}

	tmpl, err := template.New("").Funcs(templateFuncs).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}
