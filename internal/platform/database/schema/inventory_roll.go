package schema

// InventoryRollTable represents the 'inventory.roll' table
type InventoryRollTable struct {
	Table               string
	ID                  string
	BrandID             string
	ColorID             string
	TypeID              string
	SubtypeID           string
	WeightGrams         string
	OriginalWeightGrams string
	Opened              string
	InUse               string
	CreatedAt           string
	UpdatedAt           string
}

// InventoryRoll is the schema definition for inventory.roll.
// One row per physical spool; updated_at doubles as the optimistic
// concurrency token for read-modify-write cycles.
var InventoryRoll = InventoryRollTable{
	Table:               "inventory.roll",
	ID:                  "id",
	BrandID:             "brand_id",
	ColorID:             "color_id",
	TypeID:              "type_id",
	SubtypeID:           "subtype_id",
	WeightGrams:         "weight_grams",
	OriginalWeightGrams: "original_weight_grams",
	Opened:              "opened",
	InUse:               "in_use",
	CreatedAt:           "created_at",
	UpdatedAt:           "updated_at",
}

func (t InventoryRollTable) Columns() []string {
	return []string{
		t.ID, t.BrandID, t.ColorID, t.TypeID, t.SubtypeID,
		t.WeightGrams, t.OriginalWeightGrams, t.Opened, t.InUse,
		t.CreatedAt, t.UpdatedAt,
	}
}
