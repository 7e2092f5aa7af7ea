package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"

	"github.com/blueprint-gen/blueprint/compiler/jdl"
)

// GenerateMigrations renders the up and down SQL scripts for the schema.
// Tables are created before any foreign key constraint is added, so
// relationships may reference entities declared later or form cycles.
func (g *Generator) GenerateMigrations(schema *jdl.Schema, opts Options) (string, string, error) {
	var up strings.Builder

	up.WriteString("-- Schema migration generated by blueprint.\n\n")

	names := schema.EntityNames()
	for _, name := range names {
		entity := schema.Entities[name]
		ddl, err := g.generateCreateTable(schema, entity, opts)
		if err != nil {
			return "", "", fmt.Errorf("failed to generate table for %s: %w", name, err)
		}
		up.WriteString(ddl)
		up.WriteString("\n")
	}

	constraints := g.generateForeignKeys(schema, opts)
	if constraints != "" {
		up.WriteString(constraints)
		up.WriteString("\n")
	}

	joins := collectJoinTables(schema, opts)
	for _, j := range joins {
		up.WriteString(g.generateJoinTable(j, opts))
		up.WriteString("\n")
	}

	var down strings.Builder
	down.WriteString("-- Rollback for the schema migration.\n\n")
	for _, j := range joins {
		down.WriteString(fmt.Sprintf("DROP TABLE IF EXISTS %s;\n", pq.QuoteIdentifier(j.table)))
	}
	for i := len(names) - 1; i >= 0; i-- {
		table := tableName(names[i], opts.PluralOverrides)
		down.WriteString(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE;\n", pq.QuoteIdentifier(table)))
	}

	return up.String(), down.String(), nil
}

// generateCreateTable renders the CREATE TABLE statement for one entity.
func (g *Generator) generateCreateTable(schema *jdl.Schema, entity *jdl.Entity, opts Options) (string, error) {
	var sql strings.Builder

	table := tableName(entity.Name, opts.PluralOverrides)
	sql.WriteString(fmt.Sprintf("CREATE TABLE %s (\n", pq.QuoteIdentifier(table)))

	var cols []string
	for _, f := range scalarFields(entity) {
		if strings.EqualFold(f.Name, "id") {
			cols = append(cols, fmt.Sprintf("  %s bigserial PRIMARY KEY", pq.QuoteIdentifier("id")))
			continue
		}
		def := fmt.Sprintf("  %s %s", pq.QuoteIdentifier(columnName(f.Name)), sqlType(schema, f))
		if !f.Nullable {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}
	for _, f := range entity.RelationshipFields() {
		if !ownsColumn(schema, entity, f) {
			continue
		}
		cols = append(cols, fmt.Sprintf("  %s bigint", pq.QuoteIdentifier(columnName(f.Name)+"_id")))
	}

	sql.WriteString(strings.Join(cols, ",\n"))
	sql.WriteString("\n);\n")

	return sql.String(), nil
}

// generateForeignKeys renders ALTER TABLE constraints and their indexes for
// every owned relationship column.
func (g *Generator) generateForeignKeys(schema *jdl.Schema, opts Options) string {
	var sql strings.Builder

	for _, name := range schema.EntityNames() {
		entity := schema.Entities[name]
		table := tableName(name, opts.PluralOverrides)
		for _, f := range entity.RelationshipFields() {
			if !ownsColumn(schema, entity, f) {
				continue
			}
			if schema.Entities[f.TargetEntity] == nil {
				continue
			}
			col := columnName(f.Name) + "_id"
			target := tableName(f.TargetEntity, opts.PluralOverrides)
			sql.WriteString(fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s);\n",
				pq.QuoteIdentifier(table),
				pq.QuoteIdentifier(fmt.Sprintf("fk_%s_%s", table, col)),
				pq.QuoteIdentifier(col),
				pq.QuoteIdentifier(target),
				pq.QuoteIdentifier("id")))
			sql.WriteString(fmt.Sprintf("CREATE INDEX %s ON %s (%s);\n",
				pq.QuoteIdentifier(fmt.Sprintf("idx_%s_%s", table, col)),
				pq.QuoteIdentifier(table),
				pq.QuoteIdentifier(col)))
		}
	}

	return sql.String()
}

// joinSpec describes one many-to-many join table.
type joinSpec struct {
	table       string
	localCol    string
	localTable  string
	remoteCol   string
	remoteTable string
}

// collectJoinTables walks every many-to-many field and derives the join
// tables, deduplicated by name so paired sides share one table.
func collectJoinTables(schema *jdl.Schema, opts Options) []joinSpec {
	seen := make(map[string]joinSpec)
	for _, name := range schema.EntityNames() {
		entity := schema.Entities[name]
		for _, f := range entity.RelationshipFields() {
			if f.RelationshipType != jdl.ManyToMany {
				continue
			}
			if schema.Entities[f.TargetEntity] == nil {
				continue
			}
			table, localCol, remoteCol := joinTable(entity.Name, f, opts.PluralOverrides)
			if _, ok := seen[table]; ok {
				continue
			}
			seen[table] = joinSpec{
				table:       table,
				localCol:    localCol,
				localTable:  tableName(entity.Name, opts.PluralOverrides),
				remoteCol:   remoteCol,
				remoteTable: tableName(f.TargetEntity, opts.PluralOverrides),
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]joinSpec, 0, len(keys))
	for _, k := range keys {
		out = append(out, seen[k])
	}
	return out
}

// generateJoinTable renders the CREATE TABLE statement for one join table.
func (g *Generator) generateJoinTable(j joinSpec, opts Options) string {
	var sql strings.Builder

	sql.WriteString(fmt.Sprintf("CREATE TABLE %s (\n", pq.QuoteIdentifier(j.table)))
	sql.WriteString(fmt.Sprintf("  %s bigint NOT NULL REFERENCES %s (%s) ON DELETE CASCADE,\n",
		pq.QuoteIdentifier(j.localCol), pq.QuoteIdentifier(j.localTable), pq.QuoteIdentifier("id")))
	sql.WriteString(fmt.Sprintf("  %s bigint NOT NULL REFERENCES %s (%s) ON DELETE CASCADE,\n",
		pq.QuoteIdentifier(j.remoteCol), pq.QuoteIdentifier(j.remoteTable), pq.QuoteIdentifier("id")))
	sql.WriteString(fmt.Sprintf("  PRIMARY KEY (%s, %s)\n",
		pq.QuoteIdentifier(j.localCol), pq.QuoteIdentifier(j.remoteCol)))
	sql.WriteString(");\n")

	return sql.String()
}
