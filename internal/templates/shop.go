package templates

// NewShopStarter creates the shop starter: a small commerce schema split
// across two files to show that sources are bundled before parsing, so
// entities can be referenced across files. The Inventory entity keeps
// its name in routes and tables through a plural override.
func NewShopStarter() *Starter {
	return &Starter{
		Name:        "shop",
		Description: "Commerce schema across two files with a plural override",
		Version:     "1.0.0",
		PluralOverrides: map[string]string{
			"Inventory": "Inventory",
		},
		Schemas: []SchemaFile{
			{
				Path: "jdl/catalog.jdl",
				Content: `// Product catalog for {{.ProjectName}}.

entity Product {
  name String required
  sku String required
  price BigDecimal required
  active Boolean
}

entity Category {
  title String required
}

entity Inventory {
  quantity Integer required
  restockedAt Instant
}

relationship ManyToMany {
  Product{categories} to Category{products}
}

relationship OneToOne {
  Inventory{product} to Product{inventory}
}
`,
			},
			{
				Path: "jdl/orders.jdl",
				Content: `// Order flow for {{.ProjectName}}. Product lives in catalog.jdl;
// all .jdl files are bundled into one schema before parsing.

enum OrderStatus {
  PENDING,
  PAID,
  SHIPPED,
  CANCELLED
}

@EnableAudit
entity Customer {
  name String required
  email String required
}

@EnableAudit
entity Order {
  status OrderStatus required
  placedAt Instant required
  total BigDecimal
}

entity OrderItem {
  quantity Integer required
  unitPrice BigDecimal required
}

relationship OneToMany {
  Customer{orders} to Order{customer},
  Order{items} to OrderItem{order}
}

relationship ManyToOne {
  OrderItem{product} to Product
}
`,
			},
		},
	}
}
