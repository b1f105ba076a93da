package services

import (
	"context"
	"errors"

	"cheshired/internal/datastore"
	"cheshired/internal/models"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

const CHAT_MESSAGE_MAX_LENGTH = 4000

type ServiceChat struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
}

func NewServiceChat(container *do.Injector) (*ServiceChat, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	return &ServiceChat{container, postgresDB, readonlyPostgresDB}, nil
}

func (service *ServiceChat) SaveExchange(ctx context.Context, walletAddress, message, response string) (*models.ChatMessage, error) {
	if message == "" || response == "" {
		return nil, errorx.Wrap(errors.New("empty chat exchange"), errorx.Invalid)
	}
	if len(message) > CHAT_MESSAGE_MAX_LENGTH || len(response) > CHAT_MESSAGE_MAX_LENGTH {
		return nil, errorx.Wrap(errors.New("chat exchange too long"), errorx.Invalid)
	}

	chat := &models.ChatMessage{
		WalletAddress: walletAddress,
		Message:       message,
		Response:      response,
	}
	err := datastore.InsertChatMessage(ctx, service.postgresDB, chat)
	if err != nil {
		return nil, err
	}

	return chat, nil
}

func (service *ServiceChat) History(ctx context.Context, walletAddress string, limit, offset int) ([]models.ChatMessage, error) {
	return datastore.GetChatMessagesByWallet(ctx, service.readonlyPostgresDB, walletAddress, limit, offset)
}
