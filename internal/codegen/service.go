package codegen

import (
	"fmt"
	"strings"

	"github.com/blueprint-gen/blueprint/compiler/inflect"
	"github.com/blueprint-gen/blueprint/compiler/jdl"
	strutil "github.com/blueprint-gen/blueprint/internal/util/strings"
)

// GenerateService renders the services/ file for one entity: a struct over
// *sql.DB with Create, Get, List, Count, Update, Delete, and join table
// accessors for many-to-many fields.
func (g *Generator) GenerateService(schema *jdl.Schema, entity *jdl.Entity, opts Options) (string, error) {
	g.reset()
	g.writeLine("package services")
	g.writeLine("")

	g.imports["context"] = true
	g.imports["database/sql"] = true
	g.imports["fmt"] = true
	if len(auditTemporalFields(entity)) > 0 {
		g.imports["time"] = true
	}
	g.imports[opts.ModulePath+"/models"] = true
	g.writeImports()
	g.writeLine("")

	name := entity.Name
	g.writeLine("// %sService provides database access for %s records.", name, name)
	g.writeLine("type %sService struct {", name)
	g.indent++
	g.writeLine("db *sql.DB")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("// New%sService creates a new %sService", name, name)
	g.writeLine("func New%sService(db *sql.DB) *%sService {", name, name)
	g.indent++
	g.writeLine("return &%sService{db: db}", name)
	g.indent--
	g.writeLine("}")
	g.writeLine("")

	plan := buildColumnPlan(schema, entity, opts)

	g.generateServiceCreate(entity, opts, plan)
	g.writeLine("")
	g.generateServiceGet(entity, opts, plan)
	g.writeLine("")
	g.generateServiceList(entity, opts, plan)
	g.writeLine("")
	g.generateServiceCount(entity, opts)
	g.writeLine("")
	g.generateServiceUpdate(entity, opts, plan)
	g.writeLine("")
	g.generateServiceDelete(entity, opts)

	for _, f := range entity.RelationshipFields() {
		if f.RelationshipType == jdl.ManyToMany {
			g.writeLine("")
			g.generateJoinAccessors(entity, f, opts)
		}
	}

	return g.buf.String(), nil
}

// columnPlan is the per-entity mapping between struct fields and SQL columns.
type columnPlan struct {
	cols      []string // selectable columns, id first
	scans     []string // scan expressions aligned with cols, "m." prefixed
	fkTemps   []fkTemp // embedded mode fk temps, used on both reads and writes
	writeCols []string // insert/update columns (cols minus id)
	writeVals []string // value expressions aligned with writeCols
}

type fkTemp struct {
	varName string // e.g. ownerID
	field   string // Go field, e.g. Owner
	target  string // target entity type
}

// buildColumnPlan walks the entity's fields once and derives every column
// list the service methods need.
func buildColumnPlan(schema *jdl.Schema, entity *jdl.Entity, opts Options) columnPlan {
	plan := columnPlan{cols: []string{"id"}, scans: []string{"&m.ID"}}

	for _, f := range scalarFields(entity) {
		if strings.EqualFold(f.Name, "id") {
			continue
		}
		col := columnName(f.Name)
		goName := toGoFieldName(f.Name)
		plan.cols = append(plan.cols, col)
		plan.scans = append(plan.scans, "&m."+goName)
		plan.writeCols = append(plan.writeCols, col)
		plan.writeVals = append(plan.writeVals, "m."+goName)
	}

	for _, f := range entity.RelationshipFields() {
		if !ownsColumn(schema, entity, f) {
			continue
		}
		col := columnName(f.Name) + "_id"
		plan.cols = append(plan.cols, col)
		plan.writeCols = append(plan.writeCols, col)
		if opts.payloadMode() == PayloadIDs {
			goName := toGoFieldName(f.Name) + "ID"
			plan.scans = append(plan.scans, "&m."+goName)
			plan.writeVals = append(plan.writeVals, "m."+goName)
			continue
		}
		temp := f.Name + "ID"
		goName := toGoFieldName(f.Name)
		plan.scans = append(plan.scans, "&"+temp)
		plan.fkTemps = append(plan.fkTemps, fkTemp{varName: temp, field: goName, target: f.TargetEntity})
		plan.writeVals = append(plan.writeVals, temp)
	}

	return plan
}

// ownsColumn reports whether the entity's table carries a foreign key column
// for the relationship field. ManyToOne sides always do; a OneToOne side does
// unless the reciprocal side exists and sorts first.
func ownsColumn(schema *jdl.Schema, entity *jdl.Entity, f *jdl.Field) bool {
	switch f.RelationshipType {
	case jdl.ManyToOne:
		return true
	case jdl.OneToOne:
		target := schema.Entities[f.TargetEntity]
		if target == nil || target.Name == entity.Name {
			return true
		}
		for _, tf := range target.RelationshipFields() {
			if tf.RelationshipType == jdl.OneToOne && tf.TargetEntity == entity.Name {
				return entity.Name < target.Name
			}
		}
		return true
	}
	return false
}

// writeFKPreamble declares the temp id variables used for embedded payloads.
func (g *Generator) writeFKPreamble(plan columnPlan) {
	for _, t := range plan.fkTemps {
		g.writeLine("var %s *int64", t.varName)
		g.writeLine("if m.%s != nil {", t.field)
		g.indent++
		g.writeLine("%s = &m.%s.ID", t.varName, t.field)
		g.indent--
		g.writeLine("}")
	}
	if len(plan.fkTemps) > 0 {
		g.writeLine("")
	}
}

// writeScanTemps declares per-row temp variables for embedded fk columns.
func (g *Generator) writeScanTemps(plan columnPlan) {
	for _, t := range plan.fkTemps {
		g.writeLine("var %s *int64", t.varName)
	}
}

// writeScanHydrate turns scanned fk ids back into shallow embedded structs.
func (g *Generator) writeScanHydrate(plan columnPlan) {
	for _, t := range plan.fkTemps {
		g.writeLine("if %s != nil {", t.varName)
		g.indent++
		g.writeLine("m.%s = &models.%s{ID: *%s}", t.field, t.target, t.varName)
		g.indent--
		g.writeLine("}")
	}
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}

// auditTemporalFields returns the injected Instant audit fields the service
// maintains on writes.
func auditTemporalFields(entity *jdl.Entity) []*jdl.Field {
	var out []*jdl.Field
	for _, f := range entity.Fields {
		if f.IsAudit && f.Type == "Instant" {
			out = append(out, f)
		}
	}
	return out
}

func (g *Generator) generateServiceCreate(entity *jdl.Entity, opts Options, plan columnPlan) {
	name := entity.Name
	table := tableName(name, opts.PluralOverrides)
	lower := strings.ToLower(name)

	g.writeLine("// Create inserts a new %s and fills in its id.", name)
	g.writeLine("func (s *%sService) Create(ctx context.Context, m *models.%s) error {", name, name)
	g.indent++
	g.writeLine("if err := m.Validate(); err != nil {")
	g.indent++
	g.writeLine(`return fmt.Errorf("validation failed: %w", err)`)
	g.indent--
	g.writeLine("}")
	g.writeLine("")

	if audit := auditTemporalFields(entity); len(audit) > 0 {
		g.writeLine("now := time.Now().UTC()")
		for _, f := range audit {
			g.writeLine("m.%s = &now", toGoFieldName(f.Name))
		}
		g.writeLine("")
	}

	g.writeFKPreamble(plan)

	g.writeLine("query := `INSERT INTO %s (%s) VALUES (%s) RETURNING id`",
		table, strings.Join(plan.writeCols, ", "), placeholders(len(plan.writeCols)))
	g.writeLine("")
	g.writeLine("err := s.db.QueryRowContext(ctx, query, %s).Scan(&m.ID)", strings.Join(plan.writeVals, ", "))
	g.writeLine("if err != nil {")
	g.indent++
	g.writeLine("return fmt.Errorf(\"failed to create %s: %%w\", err)", lower)
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("return nil")
	g.indent--
	g.writeLine("}")
}

func (g *Generator) generateServiceGet(entity *jdl.Entity, opts Options, plan columnPlan) {
	name := entity.Name
	table := tableName(name, opts.PluralOverrides)
	lower := strings.ToLower(name)

	g.writeLine("// Get retrieves a %s by id.", name)
	g.writeLine("func (s *%sService) Get(ctx context.Context, id int64) (*models.%s, error) {", name, name)
	g.indent++
	g.writeLine("query := `SELECT %s FROM %s WHERE id = $1`",
		strings.Join(plan.cols, ", "), table)
	g.writeLine("")
	g.writeLine("m := &models.%s{}", name)
	g.writeScanTemps(plan)
	g.writeLine("err := s.db.QueryRowContext(ctx, query, id).Scan(%s)", strings.Join(plan.scans, ", "))
	g.writeLine("if err != nil {")
	g.indent++
	g.writeLine("return nil, fmt.Errorf(\"failed to find %s: %%w\", err)", lower)
	g.indent--
	g.writeLine("}")
	g.writeScanHydrate(plan)
	g.writeLine("")
	g.writeLine("return m, nil")
	g.indent--
	g.writeLine("}")
}

func (g *Generator) generateServiceList(entity *jdl.Entity, opts Options, plan columnPlan) {
	name := entity.Name
	table := tableName(name, opts.PluralOverrides)
	lower := strings.ToLower(name)

	g.writeLine("// List returns a page of %s records ordered by id.", name)
	g.writeLine("func (s *%sService) List(ctx context.Context, limit, offset int) ([]*models.%s, error) {", name, name)
	g.indent++
	g.writeLine("query := `SELECT %s FROM %s ORDER BY id LIMIT $1 OFFSET $2`",
		strings.Join(plan.cols, ", "), table)
	g.writeLine("")
	g.writeLine("rows, err := s.db.QueryContext(ctx, query, limit, offset)")
	g.writeLine("if err != nil {")
	g.indent++
	g.writeLine("return nil, fmt.Errorf(\"failed to list %s: %%w\", err)", table)
	g.indent--
	g.writeLine("}")
	g.writeLine("defer rows.Close()")
	g.writeLine("")
	g.writeLine("var out []*models.%s", name)
	g.writeLine("for rows.Next() {")
	g.indent++
	g.writeLine("m := &models.%s{}", name)
	g.writeScanTemps(plan)
	g.writeLine("if err := rows.Scan(%s); err != nil {", strings.Join(plan.scans, ", "))
	g.indent++
	g.writeLine("return nil, fmt.Errorf(\"failed to scan %s: %%w\", err)", lower)
	g.indent--
	g.writeLine("}")
	g.writeScanHydrate(plan)
	g.writeLine("out = append(out, m)")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("return out, rows.Err()")
	g.indent--
	g.writeLine("}")
}

func (g *Generator) generateServiceCount(entity *jdl.Entity, opts Options) {
	name := entity.Name
	table := tableName(name, opts.PluralOverrides)

	g.writeLine("// Count returns the total number of %s records.", name)
	g.writeLine("func (s *%sService) Count(ctx context.Context) (int64, error) {", name)
	g.indent++
	g.writeLine("var n int64")
	g.writeLine("if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM %s`).Scan(&n); err != nil {", table)
	g.indent++
	g.writeLine("return 0, fmt.Errorf(\"failed to count %s: %%w\", err)", table)
	g.indent--
	g.writeLine("}")
	g.writeLine("return n, nil")
	g.indent--
	g.writeLine("}")
}

func (g *Generator) generateServiceUpdate(entity *jdl.Entity, opts Options, plan columnPlan) {
	name := entity.Name
	table := tableName(name, opts.PluralOverrides)
	lower := strings.ToLower(name)

	g.writeLine("// Update rewrites an existing %s.", name)
	g.writeLine("func (s *%sService) Update(ctx context.Context, m *models.%s) error {", name, name)
	g.indent++
	g.writeLine("if err := m.Validate(); err != nil {")
	g.indent++
	g.writeLine(`return fmt.Errorf("validation failed: %w", err)`)
	g.indent--
	g.writeLine("}")
	g.writeLine("")

	if audit := hasLastModified(entity); audit != "" {
		g.writeLine("now := time.Now().UTC()")
		g.writeLine("m.%s = &now", audit)
		g.writeLine("")
	}

	g.writeFKPreamble(plan)

	set := make([]string, len(plan.writeCols))
	for i, col := range plan.writeCols {
		set[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	g.writeLine("query := `UPDATE %s SET %s WHERE id = $%d`",
		table, strings.Join(set, ", "), len(plan.writeCols)+1)
	g.writeLine("")
	vals := append(append([]string{}, plan.writeVals...), "m.ID")
	g.writeLine("_, err := s.db.ExecContext(ctx, query, %s)", strings.Join(vals, ", "))
	g.writeLine("if err != nil {")
	g.indent++
	g.writeLine("return fmt.Errorf(\"failed to update %s: %%w\", err)", lower)
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("return nil")
	g.indent--
	g.writeLine("}")
}

// hasLastModified returns the Go name of the lastModifiedDate audit field,
// or "".
func hasLastModified(entity *jdl.Entity) string {
	for _, f := range auditTemporalFields(entity) {
		if f.Name == "lastModifiedDate" {
			return toGoFieldName(f.Name)
		}
	}
	return ""
}

func (g *Generator) generateServiceDelete(entity *jdl.Entity, opts Options) {
	name := entity.Name
	table := tableName(name, opts.PluralOverrides)
	lower := strings.ToLower(name)

	g.writeLine("// Delete removes a %s by id.", name)
	g.writeLine("func (s *%sService) Delete(ctx context.Context, id int64) error {", name)
	g.indent++
	g.writeLine("_, err := s.db.ExecContext(ctx, `DELETE FROM %s WHERE id = $1`, id)", table)
	g.writeLine("if err != nil {")
	g.indent++
	g.writeLine("return fmt.Errorf(\"failed to delete %s: %%w\", err)", lower)
	g.indent--
	g.writeLine("}")
	g.writeLine("return nil")
	g.indent--
	g.writeLine("}")
}

// generateJoinAccessors emits the join table methods for one many-to-many
// field: a replace-all setter and an id lister.
func (g *Generator) generateJoinAccessors(entity *jdl.Entity, f *jdl.Field, opts Options) {
	name := entity.Name
	table, localCol, remoteCol := joinTable(entity.Name, f, opts.PluralOverrides)
	fieldName := toGoFieldName(f.Name)
	single := singularGoName(f.Name, opts)

	g.writeLine("// Set%s replaces the %s linked to a %s.", fieldName, f.Name, name)
	g.writeLine("func (s *%sService) Set%s(ctx context.Context, id int64, targetIDs []int64) error {", name, fieldName)
	g.indent++
	g.writeLine("tx, err := s.db.BeginTx(ctx, nil)")
	g.writeLine("if err != nil {")
	g.indent++
	g.writeLine(`return fmt.Errorf("failed to begin transaction: %w", err)`)
	g.indent--
	g.writeLine("}")
	g.writeLine("defer tx.Rollback()")
	g.writeLine("")
	g.writeLine("if _, err := tx.ExecContext(ctx, `DELETE FROM %s WHERE %s = $1`, id); err != nil {", table, localCol)
	g.indent++
	g.writeLine("return fmt.Errorf(\"failed to clear %s: %%w\", err)", f.Name)
	g.indent--
	g.writeLine("}")
	g.writeLine("for _, targetID := range targetIDs {")
	g.indent++
	g.writeLine("if _, err := tx.ExecContext(ctx, `INSERT INTO %s (%s, %s) VALUES ($1, $2)`, id, targetID); err != nil {", table, localCol, remoteCol)
	g.indent++
	g.writeLine("return fmt.Errorf(\"failed to link %s: %%w\", err)", f.Name)
	g.indent--
	g.writeLine("}")
	g.indent--
	g.writeLine("}")
	g.writeLine("return tx.Commit()")
	g.indent--
	g.writeLine("}")
	g.writeLine("")

	g.writeLine("// %sIDs lists the ids of %s linked to a %s.", single, f.Name, name)
	g.writeLine("func (s *%sService) %sIDs(ctx context.Context, id int64) ([]int64, error) {", name, single)
	g.indent++
	g.writeLine("rows, err := s.db.QueryContext(ctx, `SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`, id)",
		remoteCol, table, localCol, remoteCol)
	g.writeLine("if err != nil {")
	g.indent++
	g.writeLine("return nil, fmt.Errorf(\"failed to list %s: %%w\", err)", f.Name)
	g.indent--
	g.writeLine("}")
	g.writeLine("defer rows.Close()")
	g.writeLine("")
	g.writeLine("var ids []int64")
	g.writeLine("for rows.Next() {")
	g.indent++
	g.writeLine("var targetID int64")
	g.writeLine("if err := rows.Scan(&targetID); err != nil {")
	g.indent++
	g.writeLine(`return nil, fmt.Errorf("failed to scan id: %w", err)`)
	g.indent--
	g.writeLine("}")
	g.writeLine("ids = append(ids, targetID)")
	g.indent--
	g.writeLine("}")
	g.writeLine("return ids, rows.Err()")
	g.indent--
	g.writeLine("}")
}

// joinTable derives the join table and column names for a many-to-many
// field. Both sides of a pair derive the same table: entity names are
// snake_cased and joined in sorted order. A self-referential field gets its
// own table named after the field.
func joinTable(entity string, f *jdl.Field, overrides map[string]string) (table, localCol, remoteCol string) {
	a := strutil.ToSnakeCase(entity)
	b := strutil.ToSnakeCase(f.TargetEntity)
	if a == b {
		remote := strutil.ToSnakeCase(inflect.Singularize(f.Name, overrides))
		return a + "_" + strutil.ToSnakeCase(f.Name), a + "_id", remote + "_id"
	}
	if a < b {
		return a + "_" + b, a + "_id", b + "_id"
	}
	return b + "_" + a, a + "_id", b + "_id"
}
