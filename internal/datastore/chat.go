package datastore

import (
	"context"

	"cheshired/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableChatMessage(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.ChatMessage)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.ChatMessage)(nil)).Index("index_chat_message_wallet").IfNotExists().Column("wallet_address").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertChatMessage(ctx context.Context, db bun.IDB, message *models.ChatMessage) error {
	_, err := db.NewInsert().Model(message).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetChatMessagesByWallet(ctx context.Context, db bun.IDB, walletAddress string, limit, offset int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := db.NewSelect().Model(&messages).
		Where("wallet_address = ?", walletAddress).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return messages, nil
}
