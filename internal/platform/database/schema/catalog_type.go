package schema

// CatalogTypeTable represents the 'catalog.type' table
type CatalogTypeTable struct {
	Table     string
	ID        string
	Name      string
	NameFold  string
	CreatedAt string
}

// CatalogType is the schema definition for catalog.type
var CatalogType = CatalogTypeTable{
	Table:     "catalog.type",
	ID:        "id",
	Name:      "name",
	NameFold:  "name_fold",
	CreatedAt: "created_at",
}

func (t CatalogTypeTable) Columns() []string { return []string{t.ID, t.Name, t.CreatedAt} }
