package codegen

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blueprint-gen/blueprint/compiler/jdl"
)

// fixtureCount is how many sample records each fixture file carries.
const fixtureCount = 2

// fixtureEpoch anchors generated timestamps so fixture output never depends
// on the wall clock.
var fixtureEpoch = time.Date(2024, time.January, 15, 8, 30, 0, 0, time.UTC)

// GenerateFixture renders a JSON seed file with deterministic sample records
// for one entity. Relationship fields are left out; ids start at 1.
func (g *Generator) GenerateFixture(schema *jdl.Schema, entity *jdl.Entity, opts Options) (string, error) {
	records := make([]map[string]any, 0, fixtureCount)
	for i := 0; i < fixtureCount; i++ {
		rec := make(map[string]any)
		for _, f := range scalarFields(entity) {
			rec[f.Name] = sampleValue(schema, entity, f, i)
		}
		records = append(records, rec)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize fixture for %s: %w", entity.Name, err)
	}

	return string(data) + "\n", nil
}

// sampleValue produces a stable sample for one field of record i.
func sampleValue(schema *jdl.Schema, entity *jdl.Entity, f *jdl.Field, i int) any {
	if schema.IsEnum(f.Type) {
		values := schema.Enums[f.Type].Values
		if len(values) == 0 {
			return ""
		}
		return values[i%len(values)]
	}

	switch f.Type {
	case "String", "TextBlob":
		if f.IsAudit {
			return "system"
		}
		return fmt.Sprintf("%s %d", f.Name, i+1)
	case "Integer":
		return (i + 1) * 10
	case "Long":
		if f.Name == "id" {
			return i + 1
		}
		return (i + 1) * 100
	case "Float", "Double", "BigDecimal":
		return float64(i+1) * 1.5
	case "Boolean":
		return i%2 == 0
	case "LocalDate":
		return fixtureEpoch.AddDate(0, 0, i).Format("2006-01-02")
	case "Instant", "ZonedDateTime":
		return fixtureEpoch.Add(time.Duration(i) * time.Hour).Format(time.RFC3339)
	case "UUID":
		seed := fmt.Sprintf("%s/%s/%d", entity.Name, f.Name, i)
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
	case "Duration":
		return int64(time.Duration(i+1) * time.Minute)
	case "Blob", "AnyBlob", "ImageBlob":
		return []byte(fmt.Sprintf("%s-%d", f.Name, i+1))
	default:
		return fmt.Sprintf("%s %d", f.Name, i+1)
	}
}
