package datastore

import (
	"context"
	"database/sql"
	"time"

	"cheshired/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePayoutRecord(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.PayoutRecord)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PayoutRecord)(nil)).Index("index_payout_record_status").IfNotExists().Column("status").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PayoutRecord)(nil)).Index("index_payout_record_recipient").IfNotExists().Column("recipient_address").Exec(ctx)
	if err != nil {
		return err
	}

	// one live payout per source post; failed attempts don't block a retry
	_, err = db.NewRaw(`
		create unique index if not exists index_payout_record_source_post_active
			on payout_record (source_post_id)
			where status <> 'failed' and source_post_id is not null;`).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertPayoutRecord(ctx context.Context, db bun.IDB, record *models.PayoutRecord) error {
	_, err := db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// FindActivePayoutBySourcePostID returns the pending or confirmed record for
// a post, or nil when the post has never been paid (failed attempts ignored).
func FindActivePayoutBySourcePostID(ctx context.Context, db bun.IDB, sourcePostID string) (*models.PayoutRecord, error) {
	var record models.PayoutRecord
	err := db.NewSelect().Model(&record).
		Where("source_post_id = ?", sourcePostID).
		Where("status != ?", models.PayoutStatusFailed).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func UpdatePayoutStatus(ctx context.Context, db bun.IDB, recordID string, status models.PayoutStatus, transactionReference string) error {
	_, err := db.NewUpdate().Model((*models.PayoutRecord)(nil)).
		Set("status = ?", status).
		Set("transaction_reference = ?", transactionReference).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", recordID).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func SumConfirmedPayouts(ctx context.Context, db bun.IDB) (int64, error) {
	var total int64
	err := db.NewSelect().Model((*models.PayoutRecord)(nil)).
		ColumnExpr("COALESCE(SUM(amount), 0)").
		Where("status = ?", models.PayoutStatusConfirmed).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

func GetPayoutsByRecipient(ctx context.Context, db bun.IDB, recipientAddress string, limit, offset int) ([]models.PayoutRecord, error) {
	var records []models.PayoutRecord
	err := db.NewSelect().Model(&records).
		Where("recipient_address = ?", recipientAddress).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}
