package preview

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/blueprint-gen/blueprint/compiler/jdl"
	"github.com/blueprint-gen/blueprint/internal/codegen"
	"github.com/blueprint-gen/blueprint/pkg/webutil"
)

// Server serves the schema explorer: a browser page over the parsed schema
// plus a JSON API, scaffold previews, and a WebSocket that announces reparses.
type Server struct {
	addr       string
	hub        *Hub
	httpServer *http.Server
	listener   net.Listener
	page       *template.Template
	views      *template.Template

	mu        sync.RWMutex
	schema    *jdl.Schema
	opts      codegen.Options
	meta      *codegen.SchemaMetadata
	diags     []Diagnostic
	updatedAt time.Time
}

// NewServer creates a preview server bound to host:port.
func NewServer(host string, port int) *Server {
	s := &Server{
		addr:  fmt.Sprintf("%s:%d", host, port),
		hub:   NewHub(),
		page:  template.Must(template.New("explorer").Parse(explorerPage)),
		views: template.Must(template.New("views").Parse(viewsPage)),
	}

	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		// No read/write timeouts: the reload WebSocket stays open.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Hub exposes the reload hub so regeneration cycles can notify browsers.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.hub.HandleWebSocket)
	r.Get("/views/{name}", s.handleViews)
	r.Get("/api/schema", s.handleSchema)
	r.Get("/api/entities/{name}", s.handleEntity)

	return r
}

// Update swaps in a freshly parsed schema and tells connected browsers.
func (s *Server) Update(schema *jdl.Schema, opts codegen.Options, diags []Diagnostic, duration time.Duration) {
	meta := codegen.BuildMetadata(schema, opts)

	s.mu.Lock()
	s.schema = schema
	s.opts = opts
	s.meta = meta
	s.diags = diags
	s.updatedAt = time.Now()
	s.mu.Unlock()

	s.hub.NotifySchema(len(meta.Entities), len(meta.Enums), duration)
	if len(diags) > 0 {
		s.hub.NotifyError(diags)
	}
}

// Start begins serving in the background. It returns an error if the
// address cannot be bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[Preview] Server error: %v", err)
		}
	}()

	return nil
}

// Stop shuts the server down gracefully and closes the hub.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	s.hub.Close()
	return err
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// schemaResponse is the /api/schema payload.
type schemaResponse struct {
	UpdatedAt   time.Time               `json:"updated_at"`
	Schema      *codegen.SchemaMetadata `json:"schema"`
	Diagnostics []Diagnostic            `json:"diagnostics"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	app := ""
	if s.meta != nil {
		app = s.meta.App
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, map[string]string{"App": app}); err != nil {
		log.Printf("[Preview] Failed to render page: %v", err)
	}
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := schemaResponse{
		UpdatedAt:   s.updatedAt,
		Schema:      s.meta,
		Diagnostics: s.diags,
	}
	s.mu.RUnlock()

	if resp.Diagnostics == nil {
		resp.Diagnostics = []Diagnostic{}
	}

	webutil.RespondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.meta != nil {
		for _, entity := range s.meta.Entities {
			if entity.Name == name {
				webutil.RespondJSON(w, http.StatusOK, entity)
				return
			}
		}
	}

	webutil.Error(w, http.StatusNotFound, "entity %q not found", name)
}

// scaffoldPreview is one generated scaffold shown on the views page. Rendered
// holds the scaffold markup verbatim; everything in it derives from schema
// identifiers, so it is safe to embed unescaped.
type scaffoldPreview struct {
	Title    string
	Source   string
	Rendered template.HTML
}

// viewsPageData is the template context for one entity's scaffold page.
type viewsPageData struct {
	App       string
	Entity    string
	Scaffolds []scaffoldPreview
}

// handleViews renders the form, list, and detail scaffolds that generation
// would emit for one entity, exactly as GenerateProject produces them.
func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	s.mu.RLock()
	schema := s.schema
	opts := s.opts
	app := ""
	if s.meta != nil {
		app = s.meta.App
	}
	s.mu.RUnlock()

	var entity *jdl.Entity
	if schema != nil {
		entity = schema.Entities[name]
	}
	if entity == nil {
		webutil.Error(w, http.StatusNotFound, "entity %q not found", name)
		return
	}

	gen := codegen.NewGenerator()
	form, err := gen.GenerateForm(schema, entity, opts)
	if err != nil {
		webutil.Error(w, http.StatusInternalServerError, "failed to render form scaffold: %v", err)
		return
	}
	list, detail, err := gen.GenerateViews(schema, entity, opts)
	if err != nil {
		webutil.Error(w, http.StatusInternalServerError, "failed to render view scaffolds: %v", err)
		return
	}

	data := viewsPageData{
		App:    app,
		Entity: name,
		Scaffolds: []scaffoldPreview{
			{Title: "Form", Source: form, Rendered: template.HTML(form)},
			{Title: "List", Source: list, Rendered: template.HTML(list)},
			{Title: "Detail", Source: detail, Rendered: template.HTML(detail)},
		},
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.views.Execute(w, data); err != nil {
		log.Printf("[Preview] Failed to render views page: %v", err)
	}
}
