package codegen

import (
	"github.com/blueprint-gen/blueprint/compiler/jdl"
)

// GenerateRoutes renders handlers/routes.go: a single registration entry
// point plus the shared id parsing helper.
func (g *Generator) GenerateRoutes(schema *jdl.Schema, opts Options) (string, error) {
	g.reset()
	g.writeLine("package handlers")
	g.writeLine("")

	g.imports["database/sql"] = true
	g.imports["net/http"] = true
	g.imports["strconv"] = true
	g.imports["github.com/go-chi/chi/v5"] = true
	g.imports["github.com/blueprint-gen/blueprint/pkg/webutil"] = true
	g.writeImports()
	g.writeLine("")

	g.writeLine("// RegisterRoutes mounts every generated handler on the router.")
	g.writeLine("func RegisterRoutes(r chi.Router, db *sql.DB) {")
	g.indent++
	for _, name := range schema.EntityNames() {
		g.writeLine("New%sHandler(db).Register(r)", name)
	}
	g.indent--
	g.writeLine("}")
	g.writeLine("")

	g.writeLine("// parseID reads the {id} route parameter, responding 400 when it is")
	g.writeLine("// not an integer.")
	g.writeLine("func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {")
	g.indent++
	g.writeLine(`id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)`)
	g.writeLine("if err != nil {")
	g.indent++
	g.writeLine(`webutil.Error(w, http.StatusBadRequest, "invalid id: %v", err)`)
	g.writeLine("return 0, false")
	g.indent--
	g.writeLine("}")
	g.writeLine("return id, true")
	g.indent--
	g.writeLine("}")

	return g.buf.String(), nil
}
