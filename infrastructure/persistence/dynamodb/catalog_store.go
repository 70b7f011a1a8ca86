package dynamodb

import (
	"context"
	stderrors "errors"
	"fmt"

	"shop-backend/domain/catalog"
	"shop-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// MaxTransactItems is the DynamoDB limit on items per TransactWriteItems call
const MaxTransactItems = 100

// TransactWriteAPI is the subset of the DynamoDB client the store needs
type TransactWriteAPI interface {
	TransactWriteItems(ctx context.Context, params *awsdynamodb.TransactWriteItemsInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.TransactWriteItemsOutput, error)
}

// CatalogStore commits product and stock rows with TransactWriteItems
type CatalogStore struct {
	client        TransactWriteAPI
	productsTable string
	stockTable    string
	logger        *zap.Logger
}

// NewCatalogStore creates a new catalog store
func NewCatalogStore(client TransactWriteAPI, productsTable, stockTable string, logger *zap.Logger) *CatalogStore {
	return &CatalogStore{
		client:        client,
		productsTable: productsTable,
		stockTable:    stockTable,
		logger:        logger,
	}
}

// Commit writes every item in a single all-or-nothing transaction. Each put
// is conditioned on the key not existing yet.
func (s *CatalogStore) Commit(ctx context.Context, items []catalog.WriteItem) error {
	if len(items) == 0 {
		return nil
	}
	if len(items) > MaxTransactItems {
		return errors.NewStoreTransactionError(
			fmt.Errorf("%d items exceed the transaction limit of %d", len(items), MaxTransactItems))
	}

	transactItems := make([]types.TransactWriteItem, 0, len(items))
	for _, item := range items {
		put, err := s.buildPut(item)
		if err != nil {
			return errors.NewStoreTransactionError(err)
		}
		transactItems = append(transactItems, types.TransactWriteItem{Put: put})
	}

	_, err := s.client.TransactWriteItems(ctx, &awsdynamodb.TransactWriteItemsInput{
		TransactItems: transactItems,
	})
	if err != nil {
		var cancelled *types.TransactionCanceledException
		if stderrors.As(err, &cancelled) {
			reasons := make([]string, 0, len(cancelled.CancellationReasons))
			for _, r := range cancelled.CancellationReasons {
				reasons = append(reasons, aws.ToString(r.Code))
			}
			s.logger.Error("Catalog transaction cancelled",
				zap.Strings("reasons", reasons),
				zap.Int("items", len(items)),
			)
		}
		return errors.NewStoreTransactionError(err)
	}

	s.logger.Debug("Catalog transaction committed", zap.Int("items", len(items)))
	return nil
}

func (s *CatalogStore) buildPut(item catalog.WriteItem) (*types.Put, error) {
	var (
		table     string
		keyName   string
		marshaled map[string]types.AttributeValue
		err       error
	)

	switch item.Kind {
	case catalog.WriteProduct:
		if item.Product == nil {
			return nil, fmt.Errorf("product put without product")
		}
		table, keyName = s.productsTable, "id"
		marshaled, err = attributevalue.MarshalMap(newProductItem(item.Product))
	case catalog.WriteStock:
		if item.Stock == nil {
			return nil, fmt.Errorf("stock put without stock")
		}
		table, keyName = s.stockTable, "product_id"
		marshaled, err = attributevalue.MarshalMap(newStockItem(item.Stock))
	default:
		return nil, fmt.Errorf("unknown write kind %q", item.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s item: %w", item.Kind, err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.Name(keyName).AttributeNotExists()).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build condition: %w", err)
	}

	return &types.Put{
		TableName:                 aws.String(table),
		Item:                      marshaled,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}, nil
}
