package datastore

import (
	"context"

	"cheshired/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableVerifiedPost(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.VerifiedPost)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.VerifiedPost)(nil)).Index("index_verified_post_post_id").Unique().IfNotExists().Column("post_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.VerifiedPost)(nil)).Index("index_verified_post_account_handle").IfNotExists().Column("account_handle").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// InsertVerifiedPost inserts the scored post unless its post_id already
// exists. Returns true when this call created the row; on a lost race the
// caller re-reads the winner's row so concurrent retries converge on one
// stored result.
func InsertVerifiedPost(ctx context.Context, db bun.IDB, post *models.VerifiedPost) (bool, error) {
	res, err := db.NewInsert().Model(post).On("CONFLICT (post_id) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func FindVerifiedPostByPostID(ctx context.Context, db bun.IDB, postID string) (*models.VerifiedPost, error) {
	var post models.VerifiedPost
	err := db.NewSelect().Model(&post).Where("post_id = ?", postID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &post, nil
}
