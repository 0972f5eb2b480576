package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"rental/infras/otel"
	"rental/infras/postgres"
	"rental/internal/domains/payment/model"
	gDto "rental/shared/dto"
	gRepo "rental/shared/repository"
)

type MerchantAccount interface {
	Insert(ctx context.Context, model model.MerchantAccount) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.MerchantAccount, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.MerchantAccount]
}

func New(db *postgres.Connection, otel otel.Otel) MerchantAccount {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.MerchantAccount](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
