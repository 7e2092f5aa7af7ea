package templates

// NewBlogStarter creates the blog starter, the default for new projects.
// It shows the main schema features in one file: enums, audit fields,
// and every relationship side the generator materializes.
func NewBlogStarter() *Starter {
	return &Starter{
		Name:        "blog",
		Description: "Blogs, posts and tags with an enum and audit fields",
		Version:     "1.0.0",
		Schemas: []SchemaFile{
			{
				Path: "jdl/app.jdl",
				Content: `// Sample Blueprint schema for {{.ProjectName}}.
// Edit freely, then run ` + "`blueprint generate`" + `.

enum PostStatus {
  DRAFT,
  PUBLISHED,
  ARCHIVED
}

entity Blog {
  name String required
  handle String required
  description String
}

@EnableAudit
entity Post {
  title String required
  content TextBlob required
  status PostStatus
  publishedAt Instant
}

entity Tag {
  label String required
}

relationship OneToMany {
  Blog{posts} to Post{blog}
}

relationship ManyToMany {
  Post{tags} to Tag{posts}
}
`,
			},
		},
	}
}
