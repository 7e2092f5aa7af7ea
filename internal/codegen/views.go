package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/blueprint-gen/blueprint/compiler/inflect"
	"github.com/blueprint-gen/blueprint/compiler/jdl"
	strutil "github.com/blueprint-gen/blueprint/internal/util/strings"
)

// formTemplate is the create/edit form scaffold for one entity.
const formTemplate = `<form id="{{.Slug}}-form" method="post" action="{{.Route}}">
  <fieldset>
    <legend>{{.Entity}}</legend>
{{- range .Fields}}
    <div class="field">
      <label for="{{.Name}}">{{.Label}}{{if .Required}} *{{end}}</label>
{{- if eq .Input "textarea"}}
      <textarea id="{{.Name}}" name="{{.Name}}"{{if .Required}} required{{end}}></textarea>
{{- else if eq .Input "select"}}
      <select id="{{.Name}}" name="{{.Name}}"{{if .Required}} required{{end}}>
{{- range .Options}}
        <option value="{{.}}">{{.}}</option>
{{- end}}
      </select>
{{- else}}
      <input type="{{.Input}}" id="{{.Name}}" name="{{.Name}}"{{if .Required}} required{{end}}>
{{- end}}
    </div>
{{- end}}
    <button type="submit">Save</button>
  </fieldset>
</form>
`

// listTemplate is the collection table scaffold for one entity.
const listTemplate = `<section class="{{.Slug}}-list">
  <h1>{{.Title}}</h1>
  <table>
    <thead>
      <tr>
{{- range .Columns}}
        <th>{{.Label}}</th>
{{- end}}
      </tr>
    </thead>
    <tbody data-source="{{.Route}}">
      <tr class="row-template">
{{- range .Columns}}
        <td data-field="{{.Name}}"></td>
{{- end}}
      </tr>
    </tbody>
  </table>
</section>
`

// detailTemplate is the single record scaffold for one entity.
const detailTemplate = `<article class="{{.Slug}}-detail" data-source="{{.Route}}/{id}">
  <h1>{{.Entity}}</h1>
  <dl>
{{- range .Columns}}
    <dt>{{.Label}}</dt>
    <dd data-field="{{.Name}}"></dd>
{{- end}}
  </dl>
</article>
`

// viewField is one field as it appears in a rendered scaffold.
type viewField struct {
	Name     string
	Label    string
	Input    string
	Required bool
	Options  []string
}

// viewModel is the template context for one entity's scaffolds.
type viewModel struct {
	Entity  string
	Title   string
	Slug    string
	Route   string
	Fields  []viewField // editable fields rendered in the form
	Columns []viewField // all scalar fields rendered in list and detail
}

// GenerateForm renders the HTML form scaffold for one entity.
func (g *Generator) GenerateForm(schema *jdl.Schema, entity *jdl.Entity, opts Options) (string, error) {
	model := buildViewModel(schema, entity, opts)
	return renderView("form", formTemplate, model)
}

// GenerateViews renders the list and detail HTML scaffolds for one entity.
func (g *Generator) GenerateViews(schema *jdl.Schema, entity *jdl.Entity, opts Options) (string, string, error) {
	model := buildViewModel(schema, entity, opts)

	list, err := renderView("list", listTemplate, model)
	if err != nil {
		return "", "", err
	}
	detail, err := renderView("detail", detailTemplate, model)
	if err != nil {
		return "", "", err
	}
	return list, detail, nil
}

// renderView executes one scaffold template.
func renderView(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s template: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", name, err)
	}
	return buf.String(), nil
}

// buildViewModel projects an entity into its scaffold template context.
func buildViewModel(schema *jdl.Schema, entity *jdl.Entity, opts Options) viewModel {
	table := tableName(entity.Name, opts.PluralOverrides)
	model := viewModel{
		Entity: entity.Name,
		Title:  fieldLabel(table),
		Slug:   strings.ReplaceAll(strutil.ToSnakeCase(entity.Name), "_", "-"),
		Route:  "/" + routePath(entity.Name, opts.PluralOverrides),
	}

	for _, f := range scalarFields(entity) {
		input, options := inputType(schema, f)
		vf := viewField{
			Name:     f.Name,
			Label:    fieldLabel(f.Name),
			Input:    input,
			Required: f.Required,
			Options:  options,
		}
		model.Columns = append(model.Columns, vf)
		if f.ReadOnly || strings.EqualFold(f.Name, "id") {
			continue
		}
		model.Fields = append(model.Fields, vf)
	}

	return model
}

// fieldLabel humanizes an identifier: "firstName" becomes "First Name".
func fieldLabel(name string) string {
	words := strings.Split(strutil.ToSnakeCase(name), "_")
	for i, w := range words {
		words[i] = inflect.Capitalize(w)
	}
	return strings.Join(words, " ")
}

// inputType maps a field type to its HTML input, with options for enums.
func inputType(schema *jdl.Schema, f *jdl.Field) (string, []string) {
	if schema.IsEnum(f.Type) {
		return "select", schema.Enums[f.Type].Values
	}
	switch f.Type {
	case "TextBlob":
		return "textarea", nil
	case "Integer", "Long", "Float", "Double", "BigDecimal":
		return "number", nil
	case "Boolean":
		return "checkbox", nil
	case "LocalDate":
		return "date", nil
	case "Instant", "ZonedDateTime":
		return "datetime-local", nil
	case "Blob", "AnyBlob", "ImageBlob":
		return "file", nil
	default:
		return "text", nil
	}
}
