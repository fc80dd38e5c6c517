package catalog

import (
	"context"
	"log/slog"
	"strings"

	"fillytrackr/internal/platform/apperr"
	"fillytrackr/internal/platform/validate"
	"fillytrackr/pkg/normalize"
)

// LookupSource resolves id->name projections, usually through [LookupCache].
type LookupSource interface {
	Entries(context context.Context, kind Kind) ([]LookupEntry, error)
	Invalidate(context context.Context, kind Kind)
}

// Service implements the reference catalog business rules.
type Service struct {
	repo    Repository
	lookups LookupSource
	logger  *slog.Logger
}

// NewService wires a catalog service.
func NewService(repo Repository, lookups LookupSource, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		lookups: lookups,
		logger:  logger,
	}
}

// CreateInput is the payload for adding a reference entity.
type CreateInput struct {
	Name    string  `json:"name"`
	HexCode *string `json:"hex_code"`
}

/*
Create adds a new reference entity of the given kind.

Description: Trims the name, validates it, and persists it with its Unicode
casefolded form so uniqueness is case-insensitive. A hex code is accepted
only for colors; a leading '#' is stripped before validation. Successful
creation invalidates the kind's lookup cache.

Parameters:
  - context: context.Context
  - kind: Kind
  - input: CreateInput

Returns:
  - *Entity: The persisted entity with id and timestamp
  - error: Validation failures, apperr.Conflict on duplicate names
*/
func (service *Service) Create(context context.Context, kind Kind, input CreateInput) (*Entity, error) {

	name := strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	validator.
		Required(FieldName, name).
		MaxLen(FieldName, name, 120)

	// Hex codes belong to colors only
	var hex *string
	if input.HexCode != nil {
		if kind != KindColor {
			validator.Custom(FieldHexCode, true, "hex code is only valid for colors")
		} else {
			trimmed := strings.TrimPrefix(strings.TrimSpace(*input.HexCode), "#")
			validator.HexColor(FieldHexCode, trimmed)
			hex = &trimmed
		}
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	entity := &Entity{
		Name:    name,
		HexCode: hex,
	}

	if err := service.repo.Create(context, kind, entity, normalize.Name(name)); err != nil {
		return nil, err
	}

	service.lookups.Invalidate(context, kind)
	service.logger.Info("catalog entity created", "kind", kind, "id", entity.ID, "name", entity.Name)

	return entity, nil
}

// List returns every entity of a kind ordered by id.
func (service *Service) List(context context.Context, kind Kind) ([]*Entity, error) {
	return service.repo.List(context, kind)
}

/*
Lookups resolves the id->name maps for all four kinds in one call.

Description: Reads each kind through the lookup cache and assembles the
combined structure grouped views need for display name enrichment.

Parameters:
  - context: context.Context

Returns:
  - Lookups: Name maps per kind plus color hex codes
  - error: Database failures
*/
func (service *Service) Lookups(context context.Context) (Lookups, error) {

	result := Lookups{
		Brands:   make(map[int]string),
		Colors:   make(map[int]string),
		Types:    make(map[int]string),
		Subtypes: make(map[int]string),
		ColorHex: make(map[int]string),
	}

	for _, kind := range Kinds {
		entries, err := service.lookups.Entries(context, kind)
		if err != nil {
			return Lookups{}, err
		}

		target := result.ByKind(kind)
		for _, entry := range entries {
			target[entry.ID] = entry.Name
			if kind == KindColor && entry.Hex != nil {
				result.ColorHex[entry.ID] = *entry.Hex
			}
		}
	}

	return result, nil
}

/*
VerifyCombo checks that a brand/color/type/subtype id tuple resolves.

Description: Names the first missing reference in the returned error so
callers creating inventory get an actionable message.

Parameters:
  - context: context.Context
  - brandID, colorID, typeID, subtypeID: int

Returns:
  - error: apperr.NotFound for the first missing kind, nil when all exist
*/
func (service *Service) VerifyCombo(context context.Context, brandID, colorID, typeID, subtypeID int) error {

	missing, err := service.repo.MissingComboKind(context, brandID, colorID, typeID, subtypeID)
	if err != nil {
		return err
	}
	if missing != "" {
		return apperr.NotFound(missing.Display())
	}
	return nil
}
