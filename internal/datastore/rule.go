package datastore

import (
	"context"

	"cheshired/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableRule(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Rule)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Rule)(nil)).Index("index_point_rule_kind_pattern").Unique().IfNotExists().Column("kind", "pattern").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// GetActiveRules returns active rules ordered by id. Ordering does not affect
// the score; points simply sum.
func GetActiveRules(ctx context.Context, db bun.IDB) ([]models.Rule, error) {
	var rules []models.Rule
	err := db.NewSelect().Model(&rules).
		Where("active = ?", true).
		Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return rules, nil
}

func CreateRule(ctx context.Context, db bun.IDB, rule *models.Rule) error {
	_, err := db.NewInsert().Model(rule).On("CONFLICT (kind, pattern) DO NOTHING").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}
