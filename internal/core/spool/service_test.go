// Copyright (c) 2026 FillyTrackr. All rights reserved.

package spool_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fillytrackr/internal/core/catalog"
	"fillytrackr/internal/core/spool"
	"fillytrackr/internal/platform/apperr"
	"fillytrackr/pkg/pointer"
)

// memoryRepository is an in-memory Repository with real compare-and-swap
// semantics: reads hand out copies, writes check the concurrency token.
type memoryRepository struct {
	nextID        int
	rolls         map[int]*spool.Roll
	forceConflict bool
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{nextID: 1, rolls: make(map[int]*spool.Roll)}
}

func (repo *memoryRepository) FindByID(_ context.Context, id int) (*spool.Roll, error) {
	stored, ok := repo.rolls[id]
	if !ok {
		return nil, apperr.NotFound("Roll")
	}
	copied := *stored
	return &copied, nil
}

func (repo *memoryRepository) InsertMany(_ context.Context, rolls []*spool.Roll) error {
	for _, roll := range rolls {
		roll.ID = repo.nextID
		repo.nextID++
		copied := *roll
		repo.rolls[roll.ID] = &copied
	}
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, roll *spool.Roll, expectedUpdatedAt time.Time) error {
	stored, ok := repo.rolls[roll.ID]
	if !ok {
		return apperr.NotFound("Roll")
	}
	if repo.forceConflict || !stored.UpdatedAt.Equal(expectedUpdatedAt) {
		return apperr.Conflict("Roll was modified concurrently")
	}
	copied := *roll
	repo.rolls[roll.ID] = &copied
	return nil
}

func (repo *memoryRepository) List(_ context.Context, criteria spool.Criteria, limit, offset int) ([]*spool.Roll, int, error) {
	matched := criteria.Apply(repo.snapshot())
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].UpdatedAt.Equal(matched[j].UpdatedAt) {
			return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (repo *memoryRepository) ListAll(_ context.Context, criteria spool.Criteria) ([]*spool.Roll, error) {
	matched := criteria.Apply(repo.snapshot())
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	return matched, nil
}

func (repo *memoryRepository) snapshot() []*spool.Roll {
	ids := make([]int, 0, len(repo.rolls))
	for id := range repo.rolls {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	rolls := make([]*spool.Roll, 0, len(ids))
	for _, id := range ids {
		copied := *repo.rolls[id]
		rolls = append(rolls, &copied)
	}
	return rolls
}

// fakeCatalog is an in-memory CatalogDirectory.
type fakeCatalog struct {
	lookups catalog.Lookups
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{lookups: catalog.Lookups{
		Brands:   map[int]string{1: "Prusament"},
		Colors:   map[int]string{1: "Galaxy Black"},
		Types:    map[int]string{1: "PLA"},
		Subtypes: map[int]string{1: "basic"},
		ColorHex: map[int]string{1: "1a1a2e"},
	}}
}

func (cat *fakeCatalog) VerifyCombo(_ context.Context, brandID, colorID, typeID, subtypeID int) error {
	checks := []struct {
		names map[int]string
		id    int
		kind  string
	}{
		{cat.lookups.Brands, brandID, "Brand"},
		{cat.lookups.Colors, colorID, "Color"},
		{cat.lookups.Types, typeID, "Type"},
		{cat.lookups.Subtypes, subtypeID, "Subtype"},
	}
	for _, check := range checks {
		if _, ok := check.names[check.id]; !ok {
			return apperr.NotFound(check.kind)
		}
	}
	return nil
}

func (cat *fakeCatalog) Lookups(_ context.Context) (catalog.Lookups, error) {
	return cat.lookups, nil
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	current time.Time
}

func (clock *fakeClock) Now() time.Time { return clock.current }

func (clock *fakeClock) Advance(d time.Duration) { clock.current = clock.current.Add(d) }

func newTestService() (*spool.Service, *memoryRepository, *fakeClock) {
	repo := newMemoryRepository()
	clock := &fakeClock{current: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := spool.NewServiceWithClock(repo, newFakeCatalog(), logger, clock.Now)
	return service, repo, clock
}

var testCombo = spool.Combo{BrandID: 1, ColorID: 1, TypeID: 1, SubtypeID: 1}

// mustCreate seeds count rolls and returns them.
func mustCreate(t *testing.T, service *spool.Service, weight float64, count int) []*spool.Roll {
	t.Helper()
	rolls, err := service.CreateRolls(context.Background(), spool.CreateRollsInput{
		Combo:               testCombo,
		OriginalWeightGrams: weight,
		Count:               count,
	})
	require.NoError(t, err)
	require.Len(t, rolls, count)
	return rolls
}

/*
TestService_CreateRolls verifies batch creation of pristine rolls.
*/
func TestService_CreateRolls(t *testing.T) {
	service, repo, clock := newTestService()

	rolls := mustCreate(t, service, 1000, 2)

	for _, roll := range rolls {
		assert.NotZero(t, roll.ID)
		assert.False(t, roll.Opened)
		assert.False(t, roll.InUse)
		assert.Equal(t, 1000.0, roll.WeightGrams)
		assert.Equal(t, 1000.0, roll.OriginalWeightGrams)
		assert.Equal(t, clock.current, roll.CreatedAt)
		assert.Equal(t, roll.CreatedAt, roll.UpdatedAt)
	}
	assert.Len(t, repo.rolls, 2)
}

/*
TestService_CreateRolls_Validation verifies input rejection.
*/
func TestService_CreateRolls_Validation(t *testing.T) {
	service, repo, _ := newTestService()

	tests := []struct {
		name   string
		input  spool.CreateRollsInput
		code   string
		reason string
	}{
		{"zero_weight", spool.CreateRollsInput{Combo: testCombo, OriginalWeightGrams: 0, Count: 1}, "VALIDATION_ERROR", "weight must be positive"},
		{"negative_weight", spool.CreateRollsInput{Combo: testCombo, OriginalWeightGrams: -5, Count: 1}, "VALIDATION_ERROR", "weight must be positive"},
		{"zero_count", spool.CreateRollsInput{Combo: testCombo, OriginalWeightGrams: 1000, Count: 0}, "VALIDATION_ERROR", "count out of range"},
		{"unknown_brand", spool.CreateRollsInput{Combo: spool.Combo{BrandID: 99, ColorID: 1, TypeID: 1, SubtypeID: 1}, OriginalWeightGrams: 1000, Count: 1}, "NOT_FOUND", "brand does not resolve"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateRolls(context.Background(), tt.input)
			require.Error(t, err, tt.reason)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.code, ae.Code)
		})
	}

	assert.Empty(t, repo.rolls, "failed creations must not persist anything")
}

/*
TestService_OpenRoll verifies the one-way opened transition and idempotence.
*/
func TestService_OpenRoll(t *testing.T) {
	service, _, clock := newTestService()
	created := mustCreate(t, service, 1000, 1)[0]

	clock.Advance(time.Minute)
	opened, err := service.OpenRoll(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, opened.Opened)
	assert.Equal(t, 1000.0, opened.WeightGrams, "opening leaves the weight untouched")
	assert.Equal(t, clock.current, opened.UpdatedAt)

	// Second open is a no-op: same observable state, no new write
	clock.Advance(time.Minute)
	again, err := service.OpenRoll(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, opened.UpdatedAt, again.UpdatedAt)

	_, err = service.OpenRoll(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_UpdateWeight_Decrease verifies the decrement variant.
*/
func TestService_UpdateWeight_Decrease(t *testing.T) {
	service, _, clock := newTestService()
	rolls := mustCreate(t, service, 1000, 2)

	clock.Advance(time.Minute)
	decrease := 200.0
	updated, err := service.UpdateWeight(context.Background(), rolls[0].ID, spool.WeightChange{DecreaseByGrams: &decrease})
	require.NoError(t, err)

	assert.True(t, updated.Opened, "weighing an unopened roll opens it")
	assert.Equal(t, 800.0, updated.WeightGrams)

	// The sibling roll is untouched
	sibling, err := service.GetRoll(context.Background(), rolls[1].ID)
	require.NoError(t, err)
	assert.False(t, sibling.Opened)
	assert.Equal(t, 1000.0, sibling.WeightGrams)
}

/*
TestService_UpdateWeight_Absolute verifies the absolute variant and bounds.
*/
func TestService_UpdateWeight_Absolute(t *testing.T) {
	service, _, _ := newTestService()
	created := mustCreate(t, service, 1000, 1)[0]

	weight := pointer.To[float64]

	// Set an absolute weight below the original
	updated, err := service.UpdateWeight(context.Background(), created.ID, spool.WeightChange{NewWeightGrams: weight(600)})
	require.NoError(t, err)
	assert.Equal(t, 600.0, updated.WeightGrams)

	// Down to exactly zero is allowed; depleted is a condition, not a state
	updated, err = service.UpdateWeight(context.Background(), created.ID, spool.WeightChange{NewWeightGrams: weight(0)})
	require.NoError(t, err)
	assert.True(t, updated.Depleted())

	tests := []struct {
		name   string
		change spool.WeightChange
	}{
		{"negative_weight", spool.WeightChange{NewWeightGrams: weight(-5)}},
		{"increase_rejected", spool.WeightChange{NewWeightGrams: weight(100)}},
		{"above_original", spool.WeightChange{NewWeightGrams: weight(1500)}},
		{"negative_decrease", spool.WeightChange{DecreaseByGrams: weight(-10)}},
		{"decrease_below_zero", spool.WeightChange{DecreaseByGrams: weight(1)}},
		{"both_variants", spool.WeightChange{NewWeightGrams: weight(10), DecreaseByGrams: weight(10)}},
		{"no_variant", spool.WeightChange{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.UpdateWeight(context.Background(), created.ID, tt.change)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

			// State unchanged after a rejected update
			current, err := service.GetRoll(context.Background(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, 0.0, current.WeightGrams)
		})
	}
}

/*
TestService_UpdateWeight_Conflict verifies the lost-race signal propagates.
*/
func TestService_UpdateWeight_Conflict(t *testing.T) {
	service, repo, _ := newTestService()
	created := mustCreate(t, service, 1000, 1)[0]

	repo.forceConflict = true
	decrease := 50.0
	_, err := service.UpdateWeight(context.Background(), created.ID, spool.WeightChange{DecreaseByGrams: &decrease})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

/*
TestService_SetInUse verifies mounting rules and change detection.
*/
func TestService_SetInUse(t *testing.T) {
	service, _, clock := newTestService()
	created := mustCreate(t, service, 1000, 1)[0]

	// Mounting an unopened roll is rejected
	_, err := service.SetInUse(context.Background(), created.ID, true)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	// Unmounting an unopened roll is a harmless no-op
	roll, err := service.SetInUse(context.Background(), created.ID, false)
	require.NoError(t, err)
	assert.False(t, roll.InUse)

	_, err = service.OpenRoll(context.Background(), created.ID)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	roll, err = service.SetInUse(context.Background(), created.ID, true)
	require.NoError(t, err)
	assert.True(t, roll.InUse)
	mountedAt := roll.UpdatedAt

	// Setting the same value again writes nothing
	clock.Advance(time.Minute)
	roll, err = service.SetInUse(context.Background(), created.ID, true)
	require.NoError(t, err)
	assert.Equal(t, mountedAt, roll.UpdatedAt)

	roll, err = service.SetInUse(context.Background(), created.ID, false)
	require.NoError(t, err)
	assert.False(t, roll.InUse)
}

/*
TestService_DuplicateRoll verifies duplication copies the combo, not state.
*/
func TestService_DuplicateRoll(t *testing.T) {
	service, _, clock := newTestService()
	created := mustCreate(t, service, 1000, 1)[0]

	// Consume the source so its state visibly differs from a fresh roll
	decrease := 200.0
	_, err := service.UpdateWeight(context.Background(), created.ID, spool.WeightChange{DecreaseByGrams: &decrease})
	require.NoError(t, err)
	_, err = service.SetInUse(context.Background(), created.ID, true)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	duplicate, err := service.DuplicateRoll(context.Background(), created.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, created.Combo, duplicate.Combo)
	assert.Equal(t, 1000.0, duplicate.OriginalWeightGrams)
	assert.Equal(t, 1000.0, duplicate.WeightGrams)
	assert.False(t, duplicate.Opened)
	assert.False(t, duplicate.InUse)

	// Weight override applies to both original and current weight
	override := 750.0
	smaller, err := service.DuplicateRoll(context.Background(), created.ID, &override)
	require.NoError(t, err)
	assert.Equal(t, 750.0, smaller.OriginalWeightGrams)
	assert.Equal(t, 750.0, smaller.WeightGrams)

	// Invalid override and unknown source
	bad := -1.0
	_, err = service.DuplicateRoll(context.Background(), created.ID, &bad)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, err = service.DuplicateRoll(context.Background(), 999, nil)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_Query verifies pagination, ordering, and the zero-weight default.
*/
func TestService_Query(t *testing.T) {
	service, _, clock := newTestService()
	rolls := mustCreate(t, service, 1000, 3)

	// Deplete one roll and partially consume another
	zero := 0.0
	_, err := service.UpdateWeight(context.Background(), rolls[0].ID, spool.WeightChange{NewWeightGrams: &zero})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	fifty := 50.0
	_, err = service.UpdateWeight(context.Background(), rolls[1].ID, spool.WeightChange{NewWeightGrams: &fifty})
	require.NoError(t, err)

	// Depleted rolls are hidden by default
	visible, total, err := service.Query(context.Background(), spool.Criteria{}, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, visible, 2)

	// Most recently updated first
	assert.Equal(t, rolls[1].ID, visible[0].ID)
	assert.Equal(t, rolls[2].ID, visible[1].ID)

	// Explicitly requested, the depleted roll reappears
	all, total, err := service.Query(context.Background(), spool.Criteria{IncludeZeroWeight: true}, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, all, 3)

	// Pagination bounds
	page, total, err := service.Query(context.Background(), spool.Criteria{IncludeZeroWeight: true}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 1)
}

/*
TestService_QueryGrouped verifies the end-to-end grouped view assembly.
*/
func TestService_QueryGrouped(t *testing.T) {
	service, _, clock := newTestService()
	rolls := mustCreate(t, service, 1000, 2)

	clock.Advance(time.Minute)
	decrease := 200.0
	_, err := service.UpdateWeight(context.Background(), rolls[0].ID, spool.WeightChange{DecreaseByGrams: &decrease})
	require.NoError(t, err)

	views, err := service.QueryGrouped(context.Background(), spool.Criteria{})
	require.NoError(t, err)
	require.Len(t, views, 1)

	view := views[0]
	assert.Equal(t, testCombo, view.Combo)
	assert.Equal(t, "Prusament", view.Brand)
	assert.Equal(t, "Galaxy Black", view.Color)
	require.NotNil(t, view.ColorHex)
	assert.Equal(t, "1a1a2e", *view.ColorHex)

	require.Len(t, view.OpenedRolls, 1)
	assert.Equal(t, rolls[0].ID, view.OpenedRolls[0].ID)
	require.Len(t, view.UnopenedRolls, 1)
	assert.Equal(t, rolls[1].ID, view.UnopenedRolls[0].ID)
	assert.Equal(t, 1800.0, view.TotalWeightGrams)
}

/*
TestRollInvariants sweeps all operations and asserts the weight bounds hold.
*/
func TestRollInvariants(t *testing.T) {
	service, repo, clock := newTestService()
	rolls := mustCreate(t, service, 500, 3)

	ops := []func(){
		func() { _, _ = service.OpenRoll(context.Background(), rolls[0].ID) },
		func() {
			d := 100.0
			_, _ = service.UpdateWeight(context.Background(), rolls[0].ID, spool.WeightChange{DecreaseByGrams: &d})
		},
		func() {
			w := 9000.0
			_, _ = service.UpdateWeight(context.Background(), rolls[1].ID, spool.WeightChange{NewWeightGrams: &w})
		},
		func() { _, _ = service.SetInUse(context.Background(), rolls[0].ID, true) },
		func() { _, _ = service.DuplicateRoll(context.Background(), rolls[2].ID, nil) },
		func() {
			d := 600.0
			_, _ = service.UpdateWeight(context.Background(), rolls[2].ID, spool.WeightChange{DecreaseByGrams: &d})
		},
	}

	for _, op := range ops {
		clock.Advance(time.Second)
		op()

		for id, roll := range repo.rolls {
			assert.GreaterOrEqual(t, roll.WeightGrams, 0.0, "roll %d", id)
			assert.LessOrEqual(t, roll.WeightGrams, roll.OriginalWeightGrams, "roll %d", id)
			if !roll.Opened {
				assert.Equal(t, roll.OriginalWeightGrams, roll.WeightGrams, "unopened roll %d must be pristine", id)
				assert.False(t, roll.InUse, "unopened roll %d cannot be in use", id)
			}
			assert.False(t, roll.UpdatedAt.Before(roll.CreatedAt), "roll %d", id)
		}
	}
}
