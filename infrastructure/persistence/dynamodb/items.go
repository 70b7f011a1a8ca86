package dynamodb

import (
	"fmt"

	"shop-backend/domain/catalog"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// productItem is the products table row
type productItem struct {
	ID          string    `dynamodbav:"id"`
	Title       string    `dynamodbav:"title"`
	Description string    `dynamodbav:"description"`
	Price       priceAttr `dynamodbav:"price"`
}

// stockItem is the stock table row
type stockItem struct {
	ProductID string `dynamodbav:"product_id"`
	Count     int64  `dynamodbav:"count"`
}

// priceAttr stores a decimal as a DynamoDB number without float rounding
type priceAttr struct {
	decimal.Decimal
}

// MarshalDynamoDBAttributeValue implements attributevalue.Marshaler
func (p priceAttr) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: p.Decimal.String()}, nil
}

// UnmarshalDynamoDBAttributeValue implements attributevalue.Unmarshaler
func (p *priceAttr) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		d, err := decimal.NewFromString(v.Value)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", v.Value, err)
		}
		p.Decimal = d
		return nil
	case *types.AttributeValueMemberS:
		d, err := decimal.NewFromString(v.Value)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", v.Value, err)
		}
		p.Decimal = d
		return nil
	case *types.AttributeValueMemberNULL:
		p.Decimal = decimal.Zero
		return nil
	default:
		return fmt.Errorf("unsupported price attribute %T", av)
	}
}

func newProductItem(p *catalog.Product) productItem {
	return productItem{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       priceAttr{p.Price},
	}
}

func (i productItem) toDomain() catalog.Product {
	return catalog.Product{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Price:       i.Price.Decimal,
	}
}

func newStockItem(s *catalog.Stock) stockItem {
	return stockItem{ProductID: s.ProductID, Count: s.Count}
}

func (i stockItem) toDomain() catalog.Stock {
	return catalog.Stock{ProductID: i.ProductID, Count: i.Count}
}
