package dynamodb

import (
	"context"
	"errors"
	"testing"

	"semnet/domain/preset"
	pkgerrors "semnet/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockDynamoDB struct {
	mock.Mock
}

func (m *mockDynamoDB) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.PutItemOutput)
	return out, args.Error(1)
}

func (m *mockDynamoDB) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.GetItemOutput)
	return out, args.Error(1)
}

func (m *mockDynamoDB) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.QueryOutput)
	return out, args.Error(1)
}

func mustMarshal(t *testing.T, item presetItem) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(item)
	require.NoError(t, err)
	return av
}

func TestPresetRepository_Save(t *testing.T) {
	client := &mockDynamoDB{}
	repo := NewPresetRepository(client, "presets", zap.NewNop())
	thumb := "abc"
	doc := &preset.Document{
		Meta:  preset.Meta{Name: "Zoo", Thumbnail: &thumb},
		Nodes: []string{"A"},
		Graph: preset.GraphSection{Nodes: []preset.NodeRecord{{ID: "A"}}},
	}

	var stored presetItem
	client.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return aws.ToString(in.TableName) == "presets"
	})).Run(func(args mock.Arguments) {
		in := args.Get(1).(*dynamodb.PutItemInput)
		require.NoError(t, attributevalue.UnmarshalMap(in.Item, &stored))
	}).Return(&dynamodb.PutItemOutput{}, nil)

	require.NoError(t, repo.Save(context.Background(), "zoo.json", doc))

	assert.Equal(t, presetsPK, stored.PK)
	assert.Equal(t, "PRESET#zoo.json", stored.SK)
	assert.Equal(t, "Zoo", stored.Name)
	assert.True(t, stored.HasPreview)
	assert.Equal(t, 1, stored.NodeCount)

	roundTrip, err := preset.Parse([]byte(stored.Document))
	require.NoError(t, err)
	assert.Equal(t, doc, roundTrip)
}

func TestPresetRepository_SaveFailure(t *testing.T) {
	client := &mockDynamoDB{}
	client.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	err := NewPresetRepository(client, "presets", zap.NewNop()).Save(context.Background(), "zoo.json", &preset.Document{})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))
}

func TestPresetRepository_Load(t *testing.T) {
	data, err := preset.Marshal(&preset.Document{Meta: preset.Meta{Name: "Zoo"}, Nodes: []string{"A"}})
	require.NoError(t, err)

	tests := []struct {
		name     string
		filename string
		out      *dynamodb.GetItemOutput
		err      error
		checkFn  func(*testing.T, *preset.Document, error)
	}{
		{
			name:     "found",
			filename: "zoo.json",
			out:      &dynamodb.GetItemOutput{Item: mustMarshal(t, presetItem{PK: presetsPK, SK: "PRESET#zoo.json", Document: string(data)})},
			checkFn: func(t *testing.T, doc *preset.Document, err error) {
				require.NoError(t, err)
				assert.Equal(t, "Zoo", doc.Meta.Name)
				assert.Equal(t, []string{"A"}, doc.Nodes)
			},
		},
		{
			name:     "missing",
			filename: "zoo.json",
			out:      &dynamodb.GetItemOutput{},
			checkFn: func(t *testing.T, doc *preset.Document, err error) {
				assert.True(t, pkgerrors.IsNotFound(err))
			},
		},
		{
			name:     "client error",
			filename: "zoo.json",
			err:      errors.New("network"),
			checkFn: func(t *testing.T, doc *preset.Document, err error) {
				assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockDynamoDB{}
			client.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
				sk, ok := in.Key["SK"].(*types.AttributeValueMemberS)
				return ok && sk.Value == "PRESET#"+tt.filename
			})).Return(tt.out, tt.err)

			doc, err := NewPresetRepository(client, "presets", zap.NewNop()).Load(context.Background(), tt.filename)
			tt.checkFn(t, doc, err)
		})
	}
}

func TestPresetRepository_LoadRejectsBadName(t *testing.T) {
	client := &mockDynamoDB{}

	_, err := NewPresetRepository(client, "presets", zap.NewNop()).Load(context.Background(), "../x.json")

	assert.True(t, pkgerrors.IsValidation(err))
	client.AssertNotCalled(t, "GetItem", mock.Anything, mock.Anything)
}

func TestPresetRepository_ListPaginates(t *testing.T) {
	client := &mockDynamoDB{}
	lastKey := itemKey("a.json")

	client.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.ExclusiveStartKey == nil
	})).Return(&dynamodb.QueryOutput{
		Items:            []map[string]types.AttributeValue{mustMarshal(t, presetItem{Filename: "a.json", Name: "Alpha", HasPreview: true})},
		LastEvaluatedKey: lastKey,
	}, nil).Once()

	client.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.ExclusiveStartKey != nil
	})).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{mustMarshal(t, presetItem{Filename: "b.json"})},
	}, nil).Once()

	summaries, err := NewPresetRepository(client, "presets", zap.NewNop()).List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []preset.Summary{
		{Filename: "a.json", Name: "Alpha", HasPreview: true},
		{Filename: "b.json", Name: preset.DefaultName},
	}, summaries)
	client.AssertExpectations(t)
}

func TestPresetRepository_ListFailure(t *testing.T) {
	client := &mockDynamoDB{}
	client.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, err := NewPresetRepository(client, "presets", zap.NewNop()).List(context.Background())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))
}
