package config

import (
	"sort"

	"datatrust/internal/schema"
)

// Raw inputs, relative to the working directory.
const (
	SalesRaw     = "data/raw/raw_data.csv"
	CustomersRaw = "data/raw/customers_raw.csv"
	ProductsRaw  = "data/raw/products_raw.csv"
	InventoryRaw = "data/raw/inventory_raw.csv"
	RegionsRaw   = "data/raw/regions_raw.csv"
)

// Trusted outputs, relative to the working directory.
const (
	SalesTrusted     = "data/trusted/sales_trusted.csv"
	CustomersTrusted = "data/trusted/customers_trusted.csv"
	ProductsTrusted  = "data/trusted/products_trusted.csv"
	InventoryTrusted = "data/trusted/inventory_trusted.csv"
	RegionsTrusted   = "data/trusted/regions_trusted.csv"
)

const (
	DefaultJob            = "data_trust"
	DefaultSourceEncoding = "latin1"
	DefaultTargetEncoding = "utf-8"
)

// Default returns the built-in job: Sales, Customers, Products, Inventory and
// Regions, in that order.
func Default() Config {
	return Config{
		Job: DefaultJob,
		Datasets: []Dataset{
			salesDataset(),
			keyedDataset("customers", "Customers", CustomersRaw, CustomersTrusted, "customer_id",
				map[string]any{
					"Customer ID":   "customer_id",
					"Customer Name": "customer_name",
					"Region":        "region",
				}),
			keyedDataset("products", "Products", ProductsRaw, ProductsTrusted, "product_id",
				map[string]any{
					"Product ID":   "product_id",
					"Product Name": "product_name",
					"Category":     "category",
				}),
			inventoryDataset(),
			keyedDataset("regions", "Regions", RegionsRaw, RegionsTrusted, "region_id",
				map[string]any{
					"Region ID":   "region_id",
					"Region Name": "region_name",
				}),
		},
		Metrics: Metrics{Backend: "none"},
	}
}

func salesDataset() Dataset {
	return Dataset{
		Name:   "sales",
		Title:  "Sales",
		Source: Source{Path: SalesRaw, Encoding: DefaultSourceEncoding},
		Parser: Parser{Kind: "csv", Options: Options{
			"header_map": map[string]any{
				"Order ID":    "order_id",
				"Order Date":  "order_date",
				"Sales":       "revenue",
				"Quantity":    "quantity",
				"Customer ID": "customer_id",
				"Product ID":  "product_id",
				"Region":      "region",
			},
		}},
		Contract: schema.Contract{
			Name: "Sales",
			Fields: []schema.Field{
				{Name: "order_id", Type: "string", Required: true},
				{Name: "order_date", Type: "date", Required: true},
				{Name: "revenue", Type: "float", Required: true},
				{Name: "quantity", Type: "float", Required: true},
				{Name: "customer_id", Type: "string"},
				{Name: "product_id", Type: "string"},
				{Name: "region", Type: "string"},
			},
		},
		Transform: []Transform{
			{Kind: "coerce", Options: Options{
				"types": map[string]any{
					"order_date": "date",
					"revenue":    "float",
					"quantity":   "float",
				},
			}},
			{Kind: "filter", Options: Options{
				"rules": []any{
					map[string]any{"field": "revenue", "op": ">=", "value": 0},
					map[string]any{"field": "quantity", "op": ">", "value": 0},
					map[string]any{"field": "order_date", "op": "<=", "value": "now"},
				},
			}},
			{Kind: "require", Options: Options{
				"fields": []any{"order_id", "order_date", "revenue"},
			}},
			{Kind: "dedup", Options: Options{
				"keys":   []any{"order_id", "order_date", "revenue"},
				"policy": "keep-last",
			}},
		},
		Target: Target{Path: SalesTrusted, Encoding: DefaultTargetEncoding},
	}
}

// keyedDataset builds the rename / drop-null-key / dedup-first shape shared by
// customers, products and regions.
func keyedDataset(name, title, raw, trusted, key string, headerMap map[string]any) Dataset {
	var others []string
	for _, canonical := range headerMap {
		if c := canonical.(string); c != key {
			others = append(others, c)
		}
	}
	sort.Strings(others)
	fields := []schema.Field{{Name: key, Type: "string", Required: true}}
	for _, c := range others {
		fields = append(fields, schema.Field{Name: c, Type: "string"})
	}
	return Dataset{
		Name:     name,
		Title:    title,
		Source:   Source{Path: raw, Encoding: DefaultSourceEncoding},
		Parser:   Parser{Kind: "csv", Options: Options{"header_map": headerMap}},
		Contract: schema.Contract{Name: title, Fields: fields},
		Transform: []Transform{
			{Kind: "require", Options: Options{"fields": []any{key}}},
			{Kind: "dedup", Options: Options{"keys": []any{key}, "policy": "keep-first"}},
		},
		Target: Target{Path: trusted, Encoding: DefaultTargetEncoding},
	}
}

func inventoryDataset() Dataset {
	return Dataset{
		Name:   "inventory",
		Title:  "Inventory",
		Source: Source{Path: InventoryRaw, Encoding: DefaultSourceEncoding},
		Parser: Parser{Kind: "csv", Options: Options{
			"trim_headers": true,
			"header_case":  "lower",
			"header_map": map[string]any{
				"product id":  "product_id",
				"stock_level": "stock",
			},
		}},
		Contract: schema.Contract{
			Name: "Inventory",
			Fields: []schema.Field{
				{Name: "product_id", Type: "string", Required: true},
				{Name: "stock", Type: "float", Required: true},
			},
		},
		Transform: []Transform{
			{Kind: "coerce", Options: Options{
				"types": map[string]any{"stock": "float"},
			}},
			// Only negative stock is dropped; rows whose stock failed to
			// coerce stay in the output.
			{Kind: "filter", Options: Options{
				"rules": []any{
					map[string]any{"field": "stock", "op": ">=", "value": 0, "keep_null": true},
				},
			}},
			{Kind: "dedup", Options: Options{
				"keys":   []any{"product_id"},
				"policy": "keep-first",
			}},
		},
		Target: Target{Path: InventoryTrusted, Encoding: DefaultTargetEncoding},
	}
}
