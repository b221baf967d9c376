package models

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/laikahq/audit_backend/utils"
)

func TestRecommendedSampleSize(t *testing.T) {
	tests := []struct {
		population int
		want       int
	}{
		{0, 0},
		{-1, 0},
		{1, 1},
		{3, 1},
		{4, 1},
		{8, 2},
		{10, 2},
		{100, 25},
		{101, 25},
	}
	for _, tc := range tests {
		if got := RecommendedSampleSize(tc.population); got != tc.want {
			t.Errorf("RecommendedSampleSize(%d) = %d, want %d", tc.population, got, tc.want)
		}
	}
}

func TestValidateSampleSize(t *testing.T) {
	if err := validateSampleSize(1, 0); !errors.Is(err, utils.ErrorNoAvailableItems) {
		t.Fatalf("empty population: got %v", err)
	}
	if err := validateSampleSize(0, 10); !errors.Is(err, utils.ErrorInvalidSampleSize) {
		t.Fatalf("size below 1: got %v", err)
	}
	if err := validateSampleSize(11, 10); !errors.Is(err, utils.ErrorInvalidSampleSize) {
		t.Fatalf("size above population: got %v", err)
	}
	if err := validateSampleSize(10, 10); err != nil {
		t.Fatalf("full-population sample should be allowed: %v", err)
	}
}

func TestPickSampleIndicesDeterministicForSeed(t *testing.T) {
	first := pickSampleIndices(rand.New(rand.NewSource(42)), 100, 25)
	second := pickSampleIndices(rand.New(rand.NewSource(42)), 100, 25)

	if len(first) != 25 {
		t.Fatalf("expected 25 indices, got %d", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed produced different draws at %d: %d vs %d", i, first[i], second[i])
		}
	}

	other := pickSampleIndices(rand.New(rand.NewSource(43)), 100, 25)
	same := true
	for i := range first {
		if first[i] != other[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds should almost surely differ")
	}
}

func samplePlanRows(ids ...int) []*PopulationData {
	rows := make([]*PopulationData, len(ids))
	for i, id := range ids {
		rows[i] = &PopulationData{ID: id}
	}
	return rows
}

func TestResolveSamplePlanPinsSelectedRows(t *testing.T) {
	rows := samplePlanRows(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	pinned, pool, randomPick := resolveSamplePlan(rows, rows, []int{3}, 3)
	if len(pinned) != 1 || pinned[0].ID != 3 {
		t.Fatalf("pinned = %v, want row 3", pinned)
	}
	if randomPick != 2 {
		t.Fatalf("randomPick = %d, want 2", randomPick)
	}
	if len(pool) != 9 {
		t.Fatalf("pool size = %d, want 9", len(pool))
	}
	for _, row := range pool {
		if row.ID == 3 {
			t.Fatal("pinned row must not be drawable again")
		}
	}

	rng := rand.New(rand.NewSource(42))
	sampled := map[int]bool{3: true}
	for _, idx := range pickSampleIndices(rng, len(pool), randomPick) {
		if sampled[pool[idx].ID] {
			t.Fatalf("row %d drawn twice", pool[idx].ID)
		}
		sampled[pool[idx].ID] = true
	}
	if len(sampled) != 3 {
		t.Fatalf("sample size = %d, want 3", len(sampled))
	}
}

func TestResolveSamplePlanDropsForeignIds(t *testing.T) {
	rows := samplePlanRows(1, 2, 3)

	pinned, pool, randomPick := resolveSamplePlan(rows, rows, []int{99, 2}, 2)
	if len(pinned) != 1 || pinned[0].ID != 2 {
		t.Fatalf("pinned = %v, want only row 2", pinned)
	}
	if randomPick != 1 {
		t.Fatalf("randomPick = %d, want 1", randomPick)
	}
	if len(pool) != 2 {
		t.Fatalf("pool size = %d, want 2", len(pool))
	}
}

func TestResolveSamplePlanRaisesTargetToSelection(t *testing.T) {
	rows := samplePlanRows(1, 2, 3, 4)

	pinned, _, randomPick := resolveSamplePlan(rows, rows, []int{1, 2, 3}, 2)
	if len(pinned) != 3 {
		t.Fatalf("pinned = %d rows, want 3", len(pinned))
	}
	if randomPick != 0 {
		t.Fatalf("randomPick = %d, want 0", randomPick)
	}
}

func TestDeleteSamplesWithNoIdsIsNoOp(t *testing.T) {
	ctx := utils.SetOrganizationIdInContext(context.Background(), "org-1")

	ok, err := DeleteAuditorPopulationSamples(ctx, 1, nil)
	if err != nil {
		t.Fatalf("empty id list: %v", err)
	}
	if !ok {
		t.Fatal("removing nothing is trivially successful")
	}
}

func TestPickSampleIndicesDistinctAndInRange(t *testing.T) {
	picked := pickSampleIndices(rand.New(rand.NewSource(7)), 10, 10)
	seen := make(map[int]bool, len(picked))
	for _, idx := range picked {
		if idx < 0 || idx >= 10 {
			t.Fatalf("index %d out of range", idx)
		}
		if seen[idx] {
			t.Fatalf("index %d drawn twice", idx)
		}
		seen[idx] = true
	}
	if len(seen) != 10 {
		t.Fatalf("expected all 10 indices, got %d", len(seen))
	}
}
