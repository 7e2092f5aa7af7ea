package codegen

import (
	"strings"

	"github.com/blueprint-gen/blueprint/compiler/jdl"
	strutil "github.com/blueprint-gen/blueprint/internal/util/strings"
)

// GenerateEnums renders models/enums.go: one string type per declared enum
// with constants, a Valid method, and a values accessor.
func (g *Generator) GenerateEnums(schema *jdl.Schema) (string, error) {
	g.reset()
	g.writeLine("package models")

	for _, name := range schema.EnumNames() {
		enum := schema.Enums[name]

		g.writeLine("")
		g.writeLine("// %s is generated from the %s enum.", name, name)
		g.writeLine("type %s string", name)
		g.writeLine("")
		g.writeLine("const (")
		g.indent++
		for _, v := range enum.Values {
			g.writeLine("%s %s = %q", enumConstName(name, v), name, v)
		}
		g.indent--
		g.writeLine(")")
		g.writeLine("")

		recv := strings.ToLower(name[0:1])
		g.writeLine("// Valid reports whether %s holds a declared %s value.", recv, name)
		g.writeLine("func (%s %s) Valid() bool {", recv, name)
		g.indent++
		g.writeLine("switch %s {", recv)
		g.writeLine("case %s:", enumConstList(enum))
		g.indent++
		g.writeLine("return true")
		g.indent--
		g.writeLine("}")
		g.writeLine("return false")
		g.indent--
		g.writeLine("}")
		g.writeLine("")

		g.writeLine("// %sValues lists the declared values in order.", name)
		g.writeLine("func %sValues() []%s {", name, name)
		g.indent++
		g.writeLine("return []%s{%s}", name, enumConstList(enum))
		g.indent--
		g.writeLine("}")
	}

	return g.buf.String(), nil
}

// enumConstName derives the Go constant for an enum value: Status + DRAFT
// gives StatusDraft.
func enumConstName(enum, value string) string {
	return enum + strutil.ToExportedName(strings.ToLower(value))
}

func enumConstList(enum *jdl.Enum) string {
	names := make([]string, len(enum.Values))
	for i, v := range enum.Values {
		names[i] = enumConstName(enum.Name, v)
	}
	return strings.Join(names, ", ")
}
