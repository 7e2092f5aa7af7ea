package codegen

import (
	"strings"

	"github.com/blueprint-gen/blueprint/compiler/inflect"
	"github.com/blueprint-gen/blueprint/compiler/jdl"
)

// GenerateHandler renders the handlers/ file for one entity: a struct over
// the entity's service with REST endpoints and a chi route registration
// method.
func (g *Generator) GenerateHandler(schema *jdl.Schema, entity *jdl.Entity, opts Options) (string, error) {
	g.reset()
	g.writeLine("package handlers")
	g.writeLine("")

	g.imports["database/sql"] = true
	g.imports["encoding/json"] = true
	g.imports["errors"] = true
	g.imports["net/http"] = true
	g.imports["github.com/go-chi/chi/v5"] = true
	g.imports["github.com/blueprint-gen/blueprint/pkg/webutil"] = true
	g.imports[opts.ModulePath+"/models"] = true
	g.imports[opts.ModulePath+"/services"] = true
	g.writeImports()
	g.writeLine("")

	name := entity.Name
	path := routePath(name, opts.PluralOverrides)

	g.writeLine("// %sHandler serves the REST endpoints for %s records.", name, name)
	g.writeLine("type %sHandler struct {", name)
	g.indent++
	g.writeLine("svc *services.%sService", name)
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("// New%sHandler creates a new %sHandler", name, name)
	g.writeLine("func New%sHandler(db *sql.DB) *%sHandler {", name, name)
	g.indent++
	g.writeLine("return &%sHandler{svc: services.New%sService(db)}", name, name)
	g.indent--
	g.writeLine("}")
	g.writeLine("")

	g.writeLine("// Register mounts the %s routes on the router.", name)
	g.writeLine("func (h *%sHandler) Register(r chi.Router) {", name)
	g.indent++
	g.writeLine(`r.Get("/%s", h.List)`, path)
	g.writeLine(`r.Post("/%s", h.Create)`, path)
	g.writeLine(`r.Get("/%s/{id}", h.Get)`, path)
	g.writeLine(`r.Put("/%s/{id}", h.Update)`, path)
	g.writeLine(`r.Delete("/%s/{id}", h.Delete)`, path)
	for _, f := range entity.RelationshipFields() {
		if f.RelationshipType == jdl.ManyToMany {
			sub := strings.ReplaceAll(columnName(f.Name), "_", "-")
			g.writeLine(`r.Get("/%s/{id}/%s", h.%sIDs)`, path, sub, singularGoName(f.Name, opts))
			g.writeLine(`r.Put("/%s/{id}/%s", h.Set%s)`, path, sub, toGoFieldName(f.Name))
		}
	}
	g.indent--
	g.writeLine("}")
	g.writeLine("")

	g.generateHandlerList(entity, opts)
	g.writeLine("")
	g.generateHandlerGet(entity, opts)
	g.writeLine("")
	g.generateHandlerCreate(entity, opts)
	g.writeLine("")
	g.generateHandlerUpdate(entity, opts)
	g.writeLine("")
	g.generateHandlerDelete(entity, opts)

	for _, f := range entity.RelationshipFields() {
		if f.RelationshipType == jdl.ManyToMany {
			g.writeLine("")
			g.generateHandlerJoin(entity, f, opts)
		}
	}

	return g.buf.String(), nil
}

// singularGoName derives a method name stem from a collection field, e.g.
// "tags" becomes "Tag".
func singularGoName(field string, opts Options) string {
	return toGoFieldName(inflect.Singularize(field, opts.PluralOverrides))
}

func (g *Generator) generateHandlerList(entity *jdl.Entity, opts Options) {
	name := entity.Name
	path := routePath(name, opts.PluralOverrides)

	g.writeLine("// List handles GET /%s with limit/offset pagination.", path)
	g.writeLine("func (h *%sHandler) List(w http.ResponseWriter, r *http.Request) {", name)
	g.indent++
	g.writeLine("ctx := r.Context()")
	g.writeLine("page := webutil.ParsePage(r)")
	g.writeLine("")
	g.writeLine("results, err := h.svc.List(ctx, page.Limit, page.Offset)")
	g.writeLine("if err != nil {")
	g.indent++
	g.writeLine("webutil.Error(w, http.StatusInternalServerError, \"failed to list %s: %%v\", err)", path)
	g.writeLine("return")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("count, err := h.svc.Count(ctx)")
	g.writeLine("if err != nil {")
	g.indent++
	g.writeLine("webutil.Error(w, http.StatusInternalServerError, \"failed to count %s: %%v\", err)", path)
	g.writeLine("return")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("webutil.SetTotalCount(w, count)")
	g.writeLine("webutil.RespondJSON(w, http.StatusOK, results)")
	g.indent--
	g.writeLine("}")
}

func (g *Generator) generateHandlerGet(entity *jdl.Entity, opts Options) {
	name := entity.Name
	lower := strings.ToLower(name)
	path := routePath(name, opts.PluralOverrides)

	g.writeLine("// Get handles GET /%s/{id}.", path)
	g.writeLine("func (h *%sHandler) Get(w http.ResponseWriter, r *http.Request) {", name)
	g.indent++
	g.writeLine("ctx := r.Context()")
	g.writeLine("id, ok := parseID(w, r)")
	g.writeLine("if !ok {")
	g.indent++
	g.writeLine("return")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("result, err := h.svc.Get(ctx, id)")
	g.writeLine("if err != nil {")
	g.indent++
	g.writeLine("if errors.Is(err, sql.ErrNoRows) {")
	g.indent++
	g.writeLine(`webutil.Error(w, http.StatusNotFound, "not found")`)
	g.writeLine("return")
	g.indent--
	g.writeLine("}")
	g.writeLine("webutil.Error(w, http.StatusInternalServerError, \"failed to get %s: %%v\", err)", lower)
	g.writeLine("return")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("webutil.RespondJSON(w, http.StatusOK, result)")
	g.indent--
	g.writeLine("}")
}

func (g *Generator) generateHandlerCreate(entity *jdl.Entity, opts Options) {
	name := entity.Name
	lower := strings.ToLower(name)
	path := routePath(name, opts.PluralOverrides)

	g.writeLine("// Create handles POST /%s.", path)
	g.writeLine("func (h *%sHandler) Create(w http.ResponseWriter, r *http.Request) {", name)
	g.indent++
	g.writeLine("ctx := r.Context()")
	g.writeLine("")
	g.writeLine("var m models.%s", name)
	g.writeLine("if err := json.NewDecoder(r.Body).Decode(&m); err != nil {")
	g.indent++
	g.writeLine(`webutil.Error(w, http.StatusBadRequest, "invalid request body: %v", err)`)
	g.writeLine("return")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("if err := h.svc.Create(ctx, &m); err != nil {")
	g.indent++
	g.writeLine("webutil.Error(w, http.StatusUnprocessableEntity, \"failed to create %s: %%v\", err)", lower)
	g.writeLine("return")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("webutil.RespondJSON(w, http.StatusCreated, &m)")
	g.indent--
	g.writeLine("}")
}

func (g *Generator) generateHandlerUpdate(entity *jdl.Entity, opts Options) {
	name := entity.Name
	lower := strings.ToLower(name)
	path := routePath(name, opts.PluralOverrides)

	g.writeLine("// Update handles PUT /%s/{id}.", path)
	g.writeLine("func (h *%sHandler) Update(w http.ResponseWriter, r *http.Request) {", name)
	g.indent++
	g.writeLine("ctx := r.Context()")
	g.writeLine("id, ok := parseID(w, r)")
	g.writeLine("if !ok {")
	g.indent++
	g.writeLine("return")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("var m models.%s", name)
	g.writeLine("if err := json.NewDecoder(r.Body).Decode(&m); err != nil {")
	g.indent++
	g.writeLine(`webutil.Error(w, http.StatusBadRequest, "invalid request body: %v", err)`)
	g.writeLine("return")
	g.indent--
	g.writeLine("}")
	g.writeLine("m.ID = id")
	g.writeLine("")
	g.writeLine("if err := h.svc.Update(ctx, &m); err != nil {")
	g.indent++
	g.writeLine("webutil.Error(w, http.StatusUnprocessableEntity, \"failed to update %s: %%v\", err)", lower)
	g.writeLine("return")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("webutil.RespondJSON(w, http.StatusOK, &m)")
	g.indent--
	g.writeLine("}")
}

func (g *Generator) generateHandlerDelete(entity *jdl.Entity, opts Options) {
	name := entity.Name
	lower := strings.ToLower(name)
	path := routePath(name, opts.PluralOverrides)

	g.writeLine("// Delete handles DELETE /%s/{id}.", path)
	g.writeLine("func (h *%sHandler) Delete(w http.ResponseWriter, r *http.Request) {", name)
	g.indent++
	g.writeLine("ctx := r.Context()")
	g.writeLine("id, ok := parseID(w, r)")
	g.writeLine("if !ok {")
	g.indent++
	g.writeLine("return")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("if err := h.svc.Delete(ctx, id); err != nil {")
	g.indent++
	g.writeLine("webutil.Error(w, http.StatusInternalServerError, \"failed to delete %s: %%v\", err)", lower)
	g.writeLine("return")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("w.WriteHeader(http.StatusNoContent)")
	g.indent--
	g.writeLine("}")
}

// generateHandlerJoin emits the two endpoints for one many-to-many field:
// a linked id lister and a replace-all setter.
func (g *Generator) generateHandlerJoin(entity *jdl.Entity, f *jdl.Field, opts Options) {
	name := entity.Name
	path := routePath(name, opts.PluralOverrides)
	sub := strings.ReplaceAll(columnName(f.Name), "_", "-")
	fieldName := toGoFieldName(f.Name)
	single := singularGoName(f.Name, opts)

	g.writeLine("// %sIDs handles GET /%s/{id}/%s.", single, path, sub)
	g.writeLine("func (h *%sHandler) %sIDs(w http.ResponseWriter, r *http.Request) {", name, single)
	g.indent++
	g.writeLine("ctx := r.Context()")
	g.writeLine("id, ok := parseID(w, r)")
	g.writeLine("if !ok {")
	g.indent++
	g.writeLine("return")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("ids, err := h.svc.%sIDs(ctx, id)", single)
	g.writeLine("if err != nil {")
	g.indent++
	g.writeLine("webutil.Error(w, http.StatusInternalServerError, \"failed to list %s: %%v\", err)", f.Name)
	g.writeLine("return")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("webutil.RespondJSON(w, http.StatusOK, ids)")
	g.indent--
	g.writeLine("}")
	g.writeLine("")

	g.writeLine("// Set%s handles PUT /%s/{id}/%s with a JSON array of ids.", fieldName, path, sub)
	g.writeLine("func (h *%sHandler) Set%s(w http.ResponseWriter, r *http.Request) {", name, fieldName)
	g.indent++
	g.writeLine("ctx := r.Context()")
	g.writeLine("id, ok := parseID(w, r)")
	g.writeLine("if !ok {")
	g.indent++
	g.writeLine("return")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("var ids []int64")
	g.writeLine("if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {")
	g.indent++
	g.writeLine(`webutil.Error(w, http.StatusBadRequest, "invalid request body: %v", err)`)
	g.writeLine("return")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("if err := h.svc.Set%s(ctx, id, ids); err != nil {", fieldName)
	g.indent++
	g.writeLine("webutil.Error(w, http.StatusUnprocessableEntity, \"failed to set %s: %%v\", err)", f.Name)
	g.writeLine("return")
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("w.WriteHeader(http.StatusNoContent)")
	g.indent--
	g.writeLine("}")
}
