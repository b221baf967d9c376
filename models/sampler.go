package models

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecommendedSampleSize is 25% of the filtered population, rounded down,
// never less than one item. Zero items recommend zero.
func RecommendedSampleSize(populationSize int) int {
	if populationSize <= 0 {
		return 0
	}
	size := decimal.NewFromInt(int64(populationSize)).
		Mul(decimal.NewFromFloat(0.25)).
		IntPart()
	if size < 1 {
		return 1
	}
	return int(size)
}

// validateSampleSize bounds a requested size to [1, populationSize].
func validateSampleSize(size int, populationSize int) error {
	if populationSize <= 0 {
		return utils.ErrorNoAvailableItems
	}
	if size < 1 || size > populationSize {
		return utils.ErrorInvalidSampleSize
	}
	return nil
}

// pickSampleIndices draws k distinct indices from [0, n) with a partial
// Fisher-Yates shuffle. The rng makes the draw reproducible for a fixed seed.
func pickSampleIndices(rng *rand.Rand, n int, k int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		indices[i], indices[j] = indices[j], indices[i]
	}
	return indices[:k]
}

// resolveSamplePlan pins the caller's selected rows and computes how many
// more to draw from the filtered rows not already pinned. Ids that do not
// belong to this population are dropped without error. When more rows are
// pinned than targetSize asks for, the target grows to fit them.
func resolveSamplePlan(allRows []*PopulationData, filtered []*PopulationData, selectedIds []int, targetSize int) (pinned []*PopulationData, pool []*PopulationData, randomPick int) {
	wanted := make(map[int]bool, len(selectedIds))
	for _, id := range selectedIds {
		wanted[id] = true
	}

	taken := make(map[int]bool, len(selectedIds))
	for _, row := range allRows {
		if wanted[row.ID] && !taken[row.ID] {
			pinned = append(pinned, row)
			taken[row.ID] = true
		}
	}

	pool = make([]*PopulationData, 0, len(filtered))
	for _, row := range filtered {
		if !taken[row.ID] {
			pool = append(pool, row)
		}
	}

	randomPick = targetSize - len(pinned)
	if randomPick < 0 {
		randomPick = 0
	}
	return pinned, pool, randomPick
}

func samplerRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// CreateAuditorPopulationSample draws a fresh sample over the filtered view:
// any previous sample is discarded, rows named in selectedIds are always
// included, size defaults to the recommendation, and the random remainder is
// uniform. A seed pins the draw for re-runs.
func CreateAuditorPopulationSample(ctx context.Context, populationId int, selectedIds []int, size *int, seed *int64) ([]*Sample, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	population, err := GetAuditeePopulation(ctx, populationId)
	if err != nil {
		return nil, err
	}
	if err := population.CheckFrozen(ctx); err != nil {
		return nil, err
	}
	schema, err := population.Schema()
	if err != nil {
		return nil, err
	}

	allRows, err := fetchPopulationRows(ctx, organizationId, populationId)
	if err != nil {
		return nil, err
	}
	filtered := ApplyFilters(allRows, population.ConfigurationFilters)

	sampleSize := RecommendedSampleSize(len(filtered))
	if size != nil {
		sampleSize = *size
	}

	pinned, pool, randomPick := resolveSamplePlan(allRows, filtered, selectedIds, sampleSize)
	sampleSize = len(pinned) + randomPick
	if len(pinned) == 0 {
		if err := validateSampleSize(sampleSize, len(filtered)); err != nil {
			return nil, err
		}
	} else if randomPick > len(pool) {
		return nil, utils.ErrorInvalidSampleSize
	}

	rng := samplerRand(seed)
	chosen := make([]*PopulationData, 0, sampleSize)
	chosen = append(chosen, pinned...)
	for _, idx := range pickSampleIndices(rng, len(pool), randomPick) {
		chosen = append(chosen, pool[idx])
	}

	db := config.GetDB()
	var samples []*Sample
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPopulation(tx, populationId); err != nil {
			return err
		}
		if err := deleteSamples(tx, populationId); err != nil {
			return err
		}

		samples = make([]*Sample, 0, len(chosen))
		for _, row := range chosen {
			if err := tx.Model(&PopulationData{}).
				Where("id = ?", row.ID).
				Update("is_sample", true).Error; err != nil {
				return err
			}
			sample := &Sample{
				OrganizationId:   organizationId,
				PopulationId:     populationId,
				PopulationDataId: row.ID,
				Name:             row.Data[schema.SearchField],
			}
			if err := tx.Create(sample).Error; err != nil {
				return err
			}
			sample.PopulationData = row
			samples = append(samples, sample)
		}

		before := *population
		population.SampleSize = &sampleSize
		population.SampleSeed = seed
		if err := tx.Save(population).Error; err != nil {
			return err
		}
		return SaveHistoryUpdate(tx, population.ID, &before, "Population sample created")
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

// AddAuditorPopulationSample grows the current sample by one random item
// drawn from the filtered rows not yet sampled.
func AddAuditorPopulationSample(ctx context.Context, populationId int, seed *int64) (*Sample, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	population, err := GetAuditeePopulation(ctx, populationId)
	if err != nil {
		return nil, err
	}
	if err := population.CheckFrozen(ctx); err != nil {
		return nil, err
	}
	schema, err := population.Schema()
	if err != nil {
		return nil, err
	}

	rows, err := fetchPopulationRows(ctx, organizationId, populationId)
	if err != nil {
		return nil, err
	}
	rows = ApplyFilters(rows, population.ConfigurationFilters)

	available := make([]*PopulationData, 0, len(rows))
	for _, row := range rows {
		if row.IsSample == nil || !*row.IsSample {
			available = append(available, row)
		}
	}
	if len(available) == 0 {
		return nil, utils.ErrorNoAvailableItems
	}

	rng := samplerRand(seed)
	row := available[rng.Intn(len(available))]

	db := config.GetDB()
	sample := &Sample{
		OrganizationId:   organizationId,
		PopulationId:     populationId,
		PopulationDataId: row.ID,
		Name:             row.Data[schema.SearchField],
	}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPopulation(tx, populationId); err != nil {
			return err
		}
		if err := tx.Model(&PopulationData{}).
			Where("id = ?", row.ID).
			Update("is_sample", true).Error; err != nil {
			return err
		}
		if err := tx.Create(sample).Error; err != nil {
			return err
		}
		if population.SampleSize != nil {
			grown := *population.SampleSize + 1
			population.SampleSize = &grown
			if err := tx.Save(population).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sample.PopulationData = row
	return sample, nil
}

// DeleteAuditorPopulationSamples removes specific samples. Deleting an
// already-deleted sample is a no-op, and so is an empty id list.
func DeleteAuditorPopulationSamples(ctx context.Context, populationId int, sampleIds []int) (bool, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return false, errors.New("organization id is required")
	}
	if len(sampleIds) == 0 {
		return true, nil
	}

	population, err := GetAuditeePopulation(ctx, populationId)
	if err != nil {
		return false, err
	}
	if err := population.CheckFrozen(ctx); err != nil {
		return false, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPopulation(tx, populationId); err != nil {
			return err
		}

		var samples []*Sample
		if err := tx.Where("organization_id = ? AND population_id = ? AND id IN ?",
			organizationId, populationId, sampleIds).Find(&samples).Error; err != nil {
			return err
		}
		for _, sample := range samples {
			if err := tx.Model(&PopulationData{}).
				Where("id = ?", sample.PopulationDataId).
				Update("is_sample", false).Error; err != nil {
				return err
			}
			if err := tx.Delete(sample).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
