package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/driftwoodlabs/awaitkit/retry"
)

// Client is the subset of the DynamoDB API the store uses. It is
// satisfied by *dynamodb.Client and by test fakes.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Item is a raw DynamoDB record.
type Item map[string]types.AttributeValue

// Unmarshal decodes the item into out, which must be a pointer.
func (i Item) Unmarshal(out any) error {
	return attributevalue.UnmarshalMap(i, out)
}

// Key identifies exactly one record: a required partition attribute and
// an optional sort attribute.
type Key struct {
	// PartitionName is the partition key attribute name (e.g. "pk").
	PartitionName string

	// PartitionValue is the partition key value. Required.
	PartitionValue string

	// SortName is the sort key attribute name (e.g. "sk"). Required only
	// when SortValue is set.
	SortName string

	// SortValue is the sort key value. When empty, the sort attribute is
	// omitted from the request entirely, not sent as an empty string.
	SortValue string
}

// attributeValues builds the GetItem key map.
func (k Key) attributeValues() (map[string]types.AttributeValue, error) {
	if k.PartitionName == "" || k.PartitionValue == "" {
		return nil, ErrMissingPartitionKey
	}
	av := map[string]types.AttributeValue{
		k.PartitionName: &types.AttributeValueMemberS{Value: k.PartitionValue},
	}
	if k.SortValue != "" {
		if k.SortName == "" {
			return nil, ErrMissingSortName
		}
		av[k.SortName] = &types.AttributeValueMemberS{Value: k.SortValue}
	}
	return av, nil
}

// QueryInput defines parameters for the collection poller. Index, limit,
// consistency, start key and sort order are passed through to DynamoDB
// unmodified, never interpreted here.
type QueryInput struct {
	// TableName is the DynamoDB table to query.
	TableName string

	// KeyConditionExpression is the DynamoDB key condition.
	KeyConditionExpression string

	// ExpressionAttributeValues maps value placeholders for the key
	// condition (e.g. ":pk").
	ExpressionAttributeValues map[string]types.AttributeValue

	// ExpressionAttributeNames maps name placeholders (e.g. "#status").
	ExpressionAttributeNames map[string]string

	// IndexName is the optional GSI/LSI to query.
	IndexName string

	// Limit caps the page size (0 = no cap).
	Limit int32

	// FilterExpression is an optional post-filter applied by DynamoDB
	// after the key condition.
	FilterExpression string

	// FilterValues maps value placeholders for the filter expression.
	// They share one namespace with ExpressionAttributeValues and are
	// merged on top of them: on a colliding placeholder name the filter
	// value wins.
	FilterValues map[string]types.AttributeValue

	// ConsistentRead requests a strongly consistent read when set.
	ConsistentRead *bool

	// ExclusiveStartKey resumes a prior query from its continuation key.
	ExclusiveStartKey map[string]types.AttributeValue

	// ScanIndexForward determines sort order by the native sort key
	// (nil/true = ascending, false = descending).
	ScanIndexForward *bool

	// Retry overrides the default poll budget (10 attempts, 2s apart).
	Retry *retry.Policy
}

// build validates the input and assembles the SDK query.
func (in QueryInput) build() (*dynamodb.QueryInput, error) {
	if in.TableName == "" {
		return nil, ErrMissingTable
	}
	if in.KeyConditionExpression == "" {
		return nil, ErrMissingKeyCondition
	}

	qi := &dynamodb.QueryInput{
		TableName:                 aws.String(in.TableName),
		KeyConditionExpression:    aws.String(in.KeyConditionExpression),
		ExpressionAttributeValues: mergeExprValues(in.ExpressionAttributeValues, in.FilterValues),
	}
	if len(in.ExpressionAttributeNames) > 0 {
		qi.ExpressionAttributeNames = in.ExpressionAttributeNames
	}
	if in.IndexName != "" {
		qi.IndexName = aws.String(in.IndexName)
	}
	if in.Limit > 0 {
		qi.Limit = aws.Int32(in.Limit)
	}
	if in.FilterExpression != "" {
		qi.FilterExpression = aws.String(in.FilterExpression)
	}
	if in.ConsistentRead != nil {
		qi.ConsistentRead = in.ConsistentRead
	}
	if in.ExclusiveStartKey != nil {
		qi.ExclusiveStartKey = in.ExclusiveStartKey
	}
	if in.ScanIndexForward != nil {
		qi.ScanIndexForward = in.ScanIndexForward
	}
	return qi, nil
}

// Page is one page of query results.
type Page struct {
	// Items holds the records on this page.
	Items []Item

	// LastEvaluatedKey is the continuation key for the next page, or nil
	// when DynamoDB reported none.
	LastEvaluatedKey map[string]types.AttributeValue
}

// mergeExprValues merges placeholder value maps left to right; later maps
// win on key collision.
func mergeExprValues(maps ...map[string]types.AttributeValue) map[string]types.AttributeValue {
	merged := make(map[string]types.AttributeValue)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}
