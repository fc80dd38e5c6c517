package schema

// CatalogColorTable represents the 'catalog.color' table
type CatalogColorTable struct {
	Table     string
	ID        string
	Name      string
	NameFold  string
	HexCode   string
	CreatedAt string
}

// CatalogColor is the schema definition for catalog.color.
// It is the only catalog table carrying an optional hex color code.
var CatalogColor = CatalogColorTable{
	Table:     "catalog.color",
	ID:        "id",
	Name:      "name",
	NameFold:  "name_fold",
	HexCode:   "hex_code",
	CreatedAt: "created_at",
}

func (t CatalogColorTable) Columns() []string {
	return []string{t.ID, t.Name, t.HexCode, t.CreatedAt}
}
