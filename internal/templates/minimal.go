package templates

// NewMinimalStarter creates the minimal starter: a single entity with no
// relationships, for projects that want a clean slate.
func NewMinimalStarter() *Starter {
	return &Starter{
		Name:        "minimal",
		Description: "Single entity, no relationships",
		Version:     "1.0.0",
		Schemas: []SchemaFile{
			{
				Path: "jdl/app.jdl",
				Content: `// Schema for {{.ProjectName}}.
// Edit freely, then run ` + "`blueprint generate`" + `.

entity Note {
  title String required
  body TextBlob
  pinned Boolean
}
`,
			},
		},
	}
}
