package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"rental/infras/otel"
	"rental/infras/postgres"
	"rental/internal/domains/review/model"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	"rental/shared/logger"
	gRepo "rental/shared/repository"
)

type Review interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Review, error)
	Stats(ctx context.Context, target model.Target) (model.Stats, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Review]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Review {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Review](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) Stats(ctx context.Context, target model.Target) (res model.Stats, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".review.Stats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	targetType, targetID := model.TargetColumns(target)

	query := fmt.Sprintf(
		"SELECT COUNT(%[1]s) AS review_count, COALESCE(AVG(%[2]s), 0) AS average_rating FROM %[3]s WHERE %[4]s = $1 AND %[5]s = $2",
		model.FieldID, model.FieldRating, model.TableName, model.FieldTargetType, model.FieldTargetID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = repo.db.Read.GetContext(ctx, &res, query, targetType, targetID); err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to get review stats (%s %s): %w", targetType, targetID, err)
	}

	return res, nil
}
