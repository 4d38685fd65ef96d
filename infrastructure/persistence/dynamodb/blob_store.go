// Package dynamodb provides a blob store over a single DynamoDB table
// partitioned by user identity.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"tangle-backend/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// BlobStore implements the blob storage contract on DynamoDB. Each
// logical key becomes one item under the user's partition.
type BlobStore struct {
	client    *dynamodb.Client
	tableName string
	userID    string
	logger    *zap.Logger
}

// NewBlobStore creates a blob store scoped to one user's partition
func NewBlobStore(client *dynamodb.Client, tableName, userID string, logger *zap.Logger) *BlobStore {
	return &BlobStore{
		client:    client,
		tableName: tableName,
		userID:    userID,
		logger:    logger,
	}
}

// blobItem represents the DynamoDB item structure for a blob
type blobItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Key       string `dynamodbav:"BlobKey"`
	Data      []byte `dynamodbav:"Data"`
	Encrypted bool   `dynamodbav:"Encrypted"`
	UpdatedAt string `dynamodbav:"UpdatedAt"`
}

// Get returns the blob stored under key, or (nil, nil) when the item
// does not exist
func (s *BlobStore) Get(ctx context.Context, key string, opts ports.GetOptions) ([]byte, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: s.pk()},
			"SK": &types.AttributeValueMemberS{Value: sk(key)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting blob %s: %w", key, err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item blobItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshaling blob %s: %w", key, err)
	}
	return item.Data, nil
}

// Put stores data under key and returns a table-qualified reference
func (s *BlobStore) Put(ctx context.Context, key string, data []byte, opts ports.PutOptions) (string, error) {
	item := blobItem{
		PK:        s.pk(),
		SK:        sk(key),
		Key:       key,
		Data:      data,
		Encrypted: opts.Encrypt,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return "", fmt.Errorf("marshaling blob %s: %w", key, err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		return "", fmt.Errorf("putting blob %s: %w", key, err)
	}

	s.logger.Debug("stored blob",
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)
	return fmt.Sprintf("dynamodb://%s/%s/%s", s.tableName, s.userID, key), nil
}

func (s *BlobStore) pk() string {
	return "USER#" + s.userID
}

func sk(key string) string {
	return "BLOB#" + key
}
