package repository

import (
	"context"
	"errors"
	"time"

	"lunapay/internal/domain/entities"
	"lunapay/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	paymentsGatewayPaymentIDIndex = "gateway_payment_id-index"
	paymentsTenantIDIndex         = "tenant_id-index"
)

type paymentItem struct {
	ID          string  `dynamodbav:"id"`
	TenantID    string  `dynamodbav:"tenant_id"`
	Amount      float64 `dynamodbav:"amount"`
	Description string  `dynamodbav:"description,omitempty"`
	Status      string  `dynamodbav:"status"`

	Gateway          string `dynamodbav:"gateway"`
	GatewayPaymentID string `dynamodbav:"gateway_payment_id"`
	PaymentMethod    string `dynamodbav:"payment_method"`

	PixQrCode       string `dynamodbav:"pix_qr_code,omitempty"`
	PixQrCodeBase64 string `dynamodbav:"pix_qr_code_base64,omitempty"`
	PixCopyPaste    string `dynamodbav:"pix_copy_paste,omitempty"`
	PixExpiresAt    string `dynamodbav:"pix_expires_at,omitempty"`

	BoletoBarCode   string `dynamodbav:"boleto_bar_code,omitempty"`
	BoletoURL       string `dynamodbav:"boleto_url,omitempty"`
	BoletoExpiresAt string `dynamodbav:"boleto_expires_at,omitempty"`

	AuthorizationCode string `dynamodbav:"authorization_code,omitempty"`
	NSU               string `dynamodbav:"nsu,omitempty"`

	CreatedAt  string `dynamodbav:"created_at"`
	UpdatedAt  string `dynamodbav:"updated_at"`
	CreatedBy  string `dynamodbav:"created_by,omitempty"`
	ModifiedBy string `dynamodbav:"modified_by,omitempty"`
}

// PaymentDynamoRepository persists Payment entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: gateway_payment_id-index (PK: gateway_payment_id)
//   - GSI: tenant_id-index (PK: tenant_id)

type PaymentDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IPaymentRepository = (*PaymentDynamoRepository)(nil)

func NewPaymentDynamoRepository(ddb *dynamodb.Client, tableName string) *PaymentDynamoRepository {
	return &PaymentDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *PaymentDynamoRepository) Create(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	it := toPaymentItem(p)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Payment{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Payment{}, err
	}
	return p, nil
}

func (r *PaymentDynamoRepository) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Payment{}, err
	}
	if len(out.Item) == 0 {
		return entities.Payment{}, nil
	}

	var it paymentItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Payment{}, err
	}
	return fromPaymentItem(it), nil
}

func (r *PaymentDynamoRepository) GetByGatewayPaymentID(ctx context.Context, gateway, gatewayPaymentID string) (entities.Payment, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentsGatewayPaymentIDIndex),
		KeyConditionExpression: aws.String("gateway_payment_id = :gpid"),
		FilterExpression:       aws.String("gateway = :gw"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":gpid": &types.AttributeValueMemberS{Value: gatewayPaymentID},
			":gw":   &types.AttributeValueMemberS{Value: gateway},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return entities.Payment{}, err
	}
	if len(out.Items) == 0 {
		return entities.Payment{}, nil
	}

	var it paymentItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &it); err != nil {
		return entities.Payment{}, err
	}
	return fromPaymentItem(it), nil
}

func (r *PaymentDynamoRepository) ListByTenantID(ctx context.Context, tenantID string) ([]entities.Payment, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentsTenantIDIndex),
		KeyConditionExpression: aws.String("tenant_id = :tid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tid": &types.AttributeValueMemberS{Value: tenantID},
		},
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.Payment, 0, len(out.Items))
	for _, raw := range out.Items {
		var it paymentItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		items = append(items, fromPaymentItem(it))
	}
	return items, nil
}

// UpdateStatus is the serialization point for concurrent writers: the
// update only lands when the stored status still equals from, so the last
// read-modify-write to commit wins and the loser sees ErrStatusConflict.
func (r *PaymentDynamoRepository) UpdateStatus(ctx context.Context, id string, from, to entities.PaymentStatus, modifiedBy string) (entities.Payment, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id) AND #status = :from"),
		UpdateExpression:    aws.String("SET #status = :to, #updated_at = :ts, #modified_by = :mb"),
		ExpressionAttributeNames: map[string]string{
			"#id":          "id",
			"#status":      "status",
			"#updated_at":  "updated_at",
			"#modified_by": "modified_by",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":from": &types.AttributeValueMemberS{Value: string(from)},
			":to":   &types.AttributeValueMemberS{Value: string(to)},
			":ts":   &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
			":mb":   &types.AttributeValueMemberS{Value: modifiedBy},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return entities.Payment{}, interfaces.ErrStatusConflict
		}
		return entities.Payment{}, err
	}

	var it paymentItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Payment{}, err
	}
	return fromPaymentItem(it), nil
}

func toPaymentItem(p entities.Payment) paymentItem {
	return paymentItem{
		ID:                p.ID,
		TenantID:          p.TenantID,
		Amount:            p.Amount,
		Description:       p.Description,
		Status:            string(p.Status),
		Gateway:           p.Gateway,
		GatewayPaymentID:  p.GatewayPaymentID,
		PaymentMethod:     string(p.PaymentMethod),
		PixQrCode:         p.PixQrCode,
		PixQrCodeBase64:   p.PixQrCodeBase64,
		PixCopyPaste:      p.PixCopyPaste,
		PixExpiresAt:      formatOptionalTime(p.PixExpiresAt),
		BoletoBarCode:     p.BoletoBarCode,
		BoletoURL:         p.BoletoURL,
		BoletoExpiresAt:   formatOptionalTime(p.BoletoExpiresAt),
		AuthorizationCode: p.AuthorizationCode,
		NSU:               p.NSU,
		CreatedAt:         p.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:         p.UpdatedAt.UTC().Format(time.RFC3339Nano),
		CreatedBy:         p.CreatedBy,
		ModifiedBy:        p.ModifiedBy,
	}
}

func fromPaymentItem(it paymentItem) entities.Payment {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	return entities.Payment{
		ID:                it.ID,
		TenantID:          it.TenantID,
		Amount:            it.Amount,
		Description:       it.Description,
		Status:            entities.PaymentStatus(it.Status),
		Gateway:           it.Gateway,
		GatewayPaymentID:  it.GatewayPaymentID,
		PaymentMethod:     entities.PaymentMethod(it.PaymentMethod),
		PixQrCode:         it.PixQrCode,
		PixQrCodeBase64:   it.PixQrCodeBase64,
		PixCopyPaste:      it.PixCopyPaste,
		PixExpiresAt:      parseOptionalTime(it.PixExpiresAt),
		BoletoBarCode:     it.BoletoBarCode,
		BoletoURL:         it.BoletoURL,
		BoletoExpiresAt:   parseOptionalTime(it.BoletoExpiresAt),
		AuthorizationCode: it.AuthorizationCode,
		NSU:               it.NSU,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
		CreatedBy:         it.CreatedBy,
		ModifiedBy:        it.ModifiedBy,
	}
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseOptionalTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return nil
	}
	return &t
}
