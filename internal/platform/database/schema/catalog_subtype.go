package schema

// CatalogSubtypeTable represents the 'catalog.subtype' table
type CatalogSubtypeTable struct {
	Table     string
	ID        string
	Name      string
	NameFold  string
	CreatedAt string
}

// CatalogSubtype is the schema definition for catalog.subtype
var CatalogSubtype = CatalogSubtypeTable{
	Table:     "catalog.subtype",
	ID:        "id",
	Name:      "name",
	NameFold:  "name_fold",
	CreatedAt: "created_at",
}

func (t CatalogSubtypeTable) Columns() []string { return []string{t.ID, t.Name, t.CreatedAt} }
