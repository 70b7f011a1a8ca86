package dynamodb

import (
	"context"
	"fmt"

	"shop-backend/domain/catalog"
	"shop-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReadAPI is the subset of the DynamoDB client the reader needs
type ReadAPI interface {
	awsdynamodb.ScanAPIClient
	GetItem(ctx context.Context, params *awsdynamodb.GetItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error)
}

// ProductReader serves list and get lookups over the products and stock tables
type ProductReader struct {
	client        ReadAPI
	productsTable string
	stockTable    string
	logger        *zap.Logger
}

// NewProductReader creates a new product reader
func NewProductReader(client ReadAPI, productsTable, stockTable string, logger *zap.Logger) *ProductReader {
	return &ProductReader{
		client:        client,
		productsTable: productsTable,
		stockTable:    stockTable,
		logger:        logger,
	}
}

// List scans both tables concurrently and joins them on product id
func (r *ProductReader) List(ctx context.Context) ([]catalog.ProductView, error) {
	var (
		products []productItem
		stocks   []stockItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = scanAll[productItem](gctx, r.client, r.productsTable, "id", "title", "description", "price")
		return err
	})
	g.Go(func() error {
		var err error
		stocks, err = scanAll[stockItem](gctx, r.client, r.stockTable, "product_id", "count")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "list products")
	}

	counts := make(map[string]catalog.Stock, len(stocks))
	for _, s := range stocks {
		counts[s.ProductID] = s.toDomain()
	}

	views := make([]catalog.ProductView, 0, len(products))
	for _, p := range products {
		var stock *catalog.Stock
		if s, ok := counts[p.ID]; ok {
			stock = &s
		}
		views = append(views, catalog.NewProductView(p.toDomain(), stock))
	}

	r.logger.Debug("Scanned catalog",
		zap.Int("products", len(products)),
		zap.Int("stock_rows", len(stocks)),
	)
	return views, nil
}

// Get fetches one product and its stock row
func (r *ProductReader) Get(ctx context.Context, id string) (*catalog.ProductView, error) {
	productOut, err := r.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.productsTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "get product")
	}
	if len(productOut.Item) == 0 {
		return nil, errors.NewNotFoundError("Product")
	}

	var product productItem
	if err := attributevalue.UnmarshalMap(productOut.Item, &product); err != nil {
		return nil, errors.Wrap(fmt.Errorf("failed to unmarshal product: %w", err), "get product")
	}

	stockOut, err := r.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.stockTable),
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "get stock")
	}

	var stock *catalog.Stock
	if len(stockOut.Item) > 0 {
		var item stockItem
		if err := attributevalue.UnmarshalMap(stockOut.Item, &item); err != nil {
			return nil, errors.Wrap(fmt.Errorf("failed to unmarshal stock: %w", err), "get stock")
		}
		s := item.toDomain()
		stock = &s
	}

	view := catalog.NewProductView(product.toDomain(), stock)
	return &view, nil
}

func scanAll[T any](ctx context.Context, client awsdynamodb.ScanAPIClient, table string, attrs ...string) ([]T, error) {
	names := make([]expression.NameBuilder, len(attrs))
	for i, a := range attrs {
		names[i] = expression.Name(a)
	}
	proj := expression.NamesList(names[0], names[1:]...)
	expr, err := expression.NewBuilder().WithProjection(proj).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build projection: %w", err)
	}

	paginator := awsdynamodb.NewScanPaginator(client, &awsdynamodb.ScanInput{
		TableName:                aws.String(table),
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
	})

	var out []T
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		var items []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s items: %w", table, err)
		}
		out = append(out, items...)
	}
	return out, nil
}
