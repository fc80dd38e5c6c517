package schema

// CatalogBrandTable represents the 'catalog.brand' table
type CatalogBrandTable struct {
	Table     string
	ID        string
	Name      string
	NameFold  string
	CreatedAt string
}

// CatalogBrand is the schema definition for catalog.brand
var CatalogBrand = CatalogBrandTable{
	Table:     "catalog.brand",
	ID:        "id",
	Name:      "name",
	NameFold:  "name_fold",
	CreatedAt: "created_at",
}

func (t CatalogBrandTable) Columns() []string { return []string{t.ID, t.Name, t.CreatedAt} }
