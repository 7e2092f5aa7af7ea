package jdl

import (
	"sort"
	"strings"
)

// RelType identifies the cardinality of a relationship.
type RelType string

const (
	OneToOne   RelType = "OneToOne"
	OneToMany  RelType = "OneToMany"
	ManyToOne  RelType = "ManyToOne"
	ManyToMany RelType = "ManyToMany"
)

// relTypes maps lowercased type tokens to their canonical form.
var relTypes = map[string]RelType{
	"onetoone":   OneToOne,
	"onetomany":  OneToMany,
	"manytoone":  ManyToOne,
	"manytomany": ManyToMany,
}

// ParseRelType resolves a relationship type token case-insensitively.
// ok is false for tokens outside the four cardinalities.
func ParseRelType(tok string) (RelType, bool) {
	rt, ok := relTypes[strings.ToLower(tok)]
	if !ok {
		return RelType(tok), false
	}
	return rt, ok
}

// Schema is the normalized output of a parse: entities and enums by name.
// It is produced once and never mutated afterwards.
type Schema struct {
	Entities map[string]*Entity `json:"entities"`
	Enums    map[string]*Enum   `json:"enums"`
}

// NewSchema returns an empty schema with initialized maps.
func NewSchema() *Schema {
	return &Schema{
		Entities: make(map[string]*Entity),
		Enums:    make(map[string]*Enum),
	}
}

// EntityNames returns all entity names in sorted order.
func (s *Schema) EntityNames() []string {
	names := make([]string, 0, len(s.Entities))
	for name := range s.Entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnumNames returns all enum names in sorted order.
func (s *Schema) EnumNames() []string {
	names := make([]string, 0, len(s.Enums))
	for name := range s.Enums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEnum reports whether name is a declared enum.
func (s *Schema) IsEnum(name string) bool {
	_, ok := s.Enums[name]
	return ok
}

// Entity is a named, ordered list of fields.
type Entity struct {
	Name   string   `json:"name"`
	Fields []*Field `json:"fields"`
}

// Field returns the field with the given name, or nil.
func (e *Entity) Field(name string) *Field {
	for _, f := range e.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// HasField reports whether a field with the exact name exists.
func (e *Entity) HasField(name string) bool {
	return e.Field(name) != nil
}

// RelationshipFields returns the entity's relationship fields in order.
func (e *Entity) RelationshipFields() []*Field {
	var rels []*Field
	for _, f := range e.Fields {
		if f.IsRelationship {
			rels = append(rels, f)
		}
	}
	return rels
}

// Field is a single entity attribute. Relationship fields carry the literal
// type "relationship" plus a cardinality and target; declared fields carry
// their JDL type token unchanged.
type Field struct {
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	Required         bool    `json:"required"`
	Nullable         bool    `json:"nullable"`
	IsRelationship   bool    `json:"is_relationship,omitempty"`
	RelationshipType RelType `json:"relationship_type,omitempty"`
	TargetEntity     string  `json:"target_entity,omitempty"`
	IsAudit          bool    `json:"is_audit,omitempty"`
	ReadOnly         bool    `json:"read_only,omitempty"`
}

// IsCollection reports whether the field holds many target rows. Only the
// OneToMany and ManyToMany sides of a relationship are collections.
func (f *Field) IsCollection() bool {
	return f.IsRelationship && (f.RelationshipType == OneToMany || f.RelationshipType == ManyToMany)
}

// Enum is a named value list in declaration order.
type Enum struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Relationship is the intermediate record scanned out of a relationship
// block, before materialization into entity fields. FromField and ToField are
// empty when the statement omitted the braced field name.
type Relationship struct {
	Type      RelType
	From      string
	To        string
	FromField string
	ToField   string

	line int
}
