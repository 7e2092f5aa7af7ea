package benchmark

import (
	"fmt"
	"regexp"
	"strings"
)

// GenerateSource returns a document with the given number of audited
// entities, chained together with relationships.
func GenerateSource(entityCount int) string {
	var sb strings.Builder

	sb.WriteString("enum Status {\n  ACTIVE, ARCHIVED\n}\n\n")

	for i := 0; i < entityCount; i++ {
		sb.WriteString(fmt.Sprintf(`@EnableAudit
entity Entity%d {
  name String required
  summary TextBlob
  count Integer
  active Boolean
  status Status
  recorded Instant
}

`, i))
	}

	for i := 1; i < entityCount; i++ {
		sb.WriteString(fmt.Sprintf("relationship OneToMany {\n  Entity%d{children} to Entity%d{parent}\n}\n\n", i-1, i))
	}

	return sb.String()
}

// GenerateLargeSource returns a document with roughly the requested number
// of lines.
func GenerateLargeSource(targetLOC int) string {
	// Each entity plus its relationship block is about 14 lines.
	entityCount := targetLOC / 14
	if entityCount < 1 {
		entityCount = 1
	}

	return GenerateSource(entityCount)
}

// Generate1000LOC returns a document of roughly 1000 lines.
func Generate1000LOC() string {
	return GenerateLargeSource(1000)
}

// Generate5000LOC returns a document of roughly 5000 lines.
func Generate5000LOC() string {
	return GenerateLargeSource(5000)
}

// SingleEntity returns a minimal document.
func SingleEntity() string {
	return `
entity Note {
  body String required
  pinned Boolean
}
`
}

// TypicalProject returns a document the size of a small real application.
func TypicalProject() string {
	return `
enum PostStatus {
  DRAFT, REVIEW, PUBLISHED
}

enum Visibility {
  PUBLIC, PRIVATE
}

@EnableAudit
entity Author {
  name String required
  handle String required
  bio TextBlob
}

@EnableAudit
entity Blog {
  name String required
  description TextBlob
  visibility Visibility
}

@EnableAudit
entity Post {
  title String required
  content TextBlob
  status PostStatus
  publishedAt Instant
}

entity Comment {
  body String required
  postedAt Instant
}

entity Category {
  name String required
}

relationship OneToMany {
  Author{blogs} to Blog{author}
}

relationship OneToMany {
  Blog{posts} to Post{blog}
}

relationship OneToMany {
  Post{comments} to Comment{post}
}

relationship ManyToMany {
  Post{categories} to Category{posts}
}
`
}

var entityRx = regexp.MustCompile(`\bentity\s+\w+`)

// CountEntities counts entity declarations in a document.
func CountEntities(source string) int {
	return len(entityRx.FindAllString(source, -1))
}

// CountLOC counts non-empty, non-comment lines.
func CountLOC(source string) int {
	count := 0
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "//") {
			count++
		}
	}

	return count
}
