package dynamodb

import (
	"context"
	"fmt"
	"time"

	"semnet/domain/preset"
	pkgerrors "semnet/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	presetsPK        = "PRESETS"
	presetSKPrefix   = "PRESET#"
	presetEntityType = "Preset"
)

// API is the part of the DynamoDB client the repository needs
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// presetItem represents the DynamoDB item structure for a preset.
// All presets share one partition; the sort key is the file name.
type presetItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	Filename   string `dynamodbav:"Filename"`
	Name       string `dynamodbav:"Name"`
	HasPreview bool   `dynamodbav:"HasPreview"`
	NodeCount  int    `dynamodbav:"NodeCount"`
	EdgeCount  int    `dynamodbav:"EdgeCount"`
	Document   string `dynamodbav:"Document,omitempty"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

// PresetRepository stores presets in a DynamoDB table
type PresetRepository struct {
	client    API
	tableName string
	logger    *zap.Logger
}

// NewPresetRepository creates a new PresetRepository
func NewPresetRepository(client API, tableName string, logger *zap.Logger) *PresetRepository {
	return &PresetRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// List returns summaries of every stored preset, ordered by filename.
// Only the summary attributes are read; documents stay in the table.
func (r *PresetRepository) List(ctx context.Context) ([]preset.Summary, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(presetsPK)).
		And(expression.Key("SK").BeginsWith(presetSKPrefix))
	projection := expression.NamesList(
		expression.Name("Filename"),
		expression.Name("Name"),
		expression.Name("HasPreview"),
	)

	expr, err := expression.NewBuilder().
		WithKeyCondition(keyCond).
		WithProjection(projection).
		Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build preset query").WithCause(err)
	}

	summaries := []preset.Summary{}
	var startKey map[string]types.AttributeValue

	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ProjectionExpression:      expr.Projection(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("list presets", err)
		}

		for _, raw := range result.Items {
			var item presetItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Debug("Skipping unreadable preset item", zap.Error(err))
				continue
			}
			name := item.Name
			if name == "" {
				name = preset.DefaultName
			}
			summaries = append(summaries, preset.Summary{
				Filename:   item.Filename,
				Name:       name,
				HasPreview: item.HasPreview,
			})
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return summaries, nil
}

// Load reads a preset by filename
func (r *PresetRepository) Load(ctx context.Context, filename string) (*preset.Document, error) {
	if _, err := preset.Filename(filename); err != nil {
		return nil, err
	}

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       itemKey(filename),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("load preset", err)
	}
	if len(result.Item) == 0 {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("preset %s", filename))
	}

	var item presetItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal preset", err)
	}

	return preset.Parse([]byte(item.Document))
}

// Save stores a preset, replacing any previous item
func (r *PresetRepository) Save(ctx context.Context, filename string, doc *preset.Document) error {
	if _, err := preset.Filename(filename); err != nil {
		return err
	}

	data, err := preset.Marshal(doc)
	if err != nil {
		return pkgerrors.NewInternalError("failed to encode preset").WithCause(err)
	}

	summary := doc.Summary(filename)
	item := presetItem{
		PK:         presetsPK,
		SK:         presetSKPrefix + filename,
		EntityType: presetEntityType,
		Filename:   filename,
		Name:       summary.Name,
		HasPreview: summary.HasPreview,
		NodeCount:  len(doc.Graph.Nodes),
		EdgeCount:  len(doc.Graph.Edges),
		Document:   string(data),
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal preset item").WithCause(err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewDatabaseError("save preset", err)
	}

	r.logger.Debug("Preset stored in DynamoDB",
		zap.String("filename", filename),
		zap.String("table", r.tableName),
		zap.Int("bytes", len(data)),
	)
	return nil
}

func itemKey(filename string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: presetsPK},
		"SK": &types.AttributeValueMemberS{Value: presetSKPrefix + filename},
	}
}
