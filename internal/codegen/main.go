package codegen

import (
	"github.com/blueprint-gen/blueprint/compiler/jdl"
	strutil "github.com/blueprint-gen/blueprint/internal/util/strings"
)

// GenerateMain renders the main.go entry point of the generated application.
func (g *Generator) GenerateMain(schema *jdl.Schema, opts Options) (string, error) {
	g.reset()
	g.writeLine("package main")
	g.writeLine("")

	g.imports["database/sql"] = true
	g.imports["fmt"] = true
	g.imports["log"] = true
	g.imports["net/http"] = true
	g.imports["os"] = true
	g.imports["github.com/go-chi/chi/v5"] = true
	g.imports["github.com/go-chi/chi/v5/middleware"] = true
	g.imports["_ github.com/jackc/pgx/v5/stdlib"] = true
	g.imports[opts.ModulePath+"/handlers"] = true
	g.writeImports()
	g.writeLine("")

	g.writeLine("func main() {")
	g.indent++
	g.writeLine("db, err := initDB()")
	g.writeLine("if err != nil {")
	g.indent++
	g.writeLine(`log.Fatalf("Failed to initialize database: %v", err)`)
	g.indent--
	g.writeLine("}")
	g.writeLine("defer db.Close()")
	g.writeLine("")
	g.writeLine("r := chi.NewRouter()")
	g.writeLine("r.Use(middleware.Logger)")
	g.writeLine("r.Use(middleware.Recoverer)")
	g.writeLine("r.Use(middleware.RequestID)")
	g.writeLine("r.Use(middleware.RealIP)")
	g.writeLine("")
	g.writeLine("handlers.RegisterRoutes(r, db)")
	g.writeLine("")
	g.writeLine(`r.Get("/health", func(w http.ResponseWriter, r *http.Request) {`)
	g.indent++
	g.writeLine("w.WriteHeader(http.StatusOK)")
	g.writeLine(`w.Write([]byte("OK"))`)
	g.indent--
	g.writeLine("})")
	g.writeLine("")
	g.writeLine(`port := os.Getenv("PORT")`)
	g.writeLine(`if port == "" {`)
	g.indent++
	g.writeLine(`port = "8080"`)
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine(`addr := fmt.Sprintf(":%s", port)`)
	g.writeLine(`log.Printf("%s listening on %%s", addr)`, opts.AppName)
	g.writeLine("")
	g.writeLine("if err := http.ListenAndServe(addr, r); err != nil {")
	g.indent++
	g.writeLine(`log.Fatalf("Server failed: %v", err)`)
	g.indent--
	g.writeLine("}")
	g.indent--
	g.writeLine("}")
	g.writeLine("")

	g.generateInitDB(opts)

	return g.buf.String(), nil
}

// generateInitDB renders the database bootstrap helper.
func (g *Generator) generateInitDB(opts Options) {
	g.writeLine("// initDB opens and verifies the database connection.")
	g.writeLine("func initDB() (*sql.DB, error) {")
	g.indent++
	g.writeLine(`dbURL := os.Getenv("DATABASE_URL")`)
	g.writeLine(`if dbURL == "" {`)
	g.indent++
	g.writeLine(`dbURL = "postgres://localhost/%s_dev?sslmode=disable"`, strutil.ToSnakeCase(opts.AppName))
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine(`db, err := sql.Open("pgx", dbURL)`)
	g.writeLine("if err != nil {")
	g.indent++
	g.writeLine(`return nil, fmt.Errorf("failed to open database: %w", err)`)
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("if err := db.Ping(); err != nil {")
	g.indent++
	g.writeLine("db.Close()")
	g.writeLine(`return nil, fmt.Errorf("failed to ping database: %w", err)`)
	g.indent--
	g.writeLine("}")
	g.writeLine("")
	g.writeLine("db.SetMaxOpenConns(25)")
	g.writeLine("db.SetMaxIdleConns(5)")
	g.writeLine("")
	g.writeLine("return db, nil")
	g.indent--
	g.writeLine("}")
}
