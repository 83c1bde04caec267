//go:build e2e

// Package e2e contains end-to-end tests against a real DynamoDB table.
// Run with: go test -tags=e2e -v ./e2e/...
//
// The target table must exist with partition key "pk" (S) and sort key
// "sk" (S), named by AWAITKIT_E2E_TABLE.
package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/driftwoodlabs/awaitkit/fixture"
	"github.com/driftwoodlabs/awaitkit/retry"
	"github.com/driftwoodlabs/awaitkit/store"
)

func newE2EStore(t *testing.T) (*store.Store, string) {
	t.Helper()

	table := os.Getenv("AWAITKIT_E2E_TABLE")
	if table == "" {
		t.Skip("AWAITKIT_E2E_TABLE not set")
	}

	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		t.Fatalf("load AWS config: %v", err)
	}
	return store.New(dynamodb.NewFromConfig(cfg)), table
}

func TestGetItemFindsSeededRecord(t *testing.T) {
	s, table := newE2EStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	id := fixture.IDWithPrefix("e2e-user")
	record := map[string]string{
		"pk":   id,
		"sk":   "PROFILE",
		"name": "Ada",
	}
	if err := s.PutItem(ctx, table, record); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	item, err := s.GetItem(ctx, table, store.Key{
		PartitionName:  "pk",
		PartitionValue: id,
		SortName:       "sk",
		SortValue:      "PROFILE",
	}, &retry.Policy{Attempts: 5, Pause: time.Second})
	if err != nil {
		t.Fatalf("poll for item: %v", err)
	}

	var got struct {
		Name string `dynamodbav:"name"`
	}
	if err := item.Unmarshal(&got); err != nil {
		t.Fatalf("unmarshal item: %v", err)
	}
	if got.Name != "Ada" {
		t.Errorf("expected name 'Ada', got %q", got.Name)
	}
}

func TestQueryFindsSeededRecords(t *testing.T) {
	s, table := newE2EStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	id := fixture.IDWithPrefix("e2e-order")
	n, err := fixture.SeedRecords(ctx, s, table, []map[string]any{
		{"pk": id, "sk": "ORDER#1", "total": 10},
		{"pk": id, "sk": "ORDER#2", "total": 20},
	})
	if err != nil {
		t.Fatalf("seed records (%d written): %v", n, err)
	}

	page, err := s.Query(ctx, store.QueryInput{
		TableName:              table,
		KeyConditionExpression: "pk = :pk",
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: id},
		},
		Retry: &retry.Policy{Attempts: 5, Pause: time.Second},
	})
	if err != nil {
		t.Fatalf("poll query: %v", err)
	}
	if len(page.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(page.Items))
	}
}

func TestGetItemGivesUpOnAbsentRecord(t *testing.T) {
	s, table := newE2EStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_, err := s.GetItem(ctx, table, store.Key{
		PartitionName:  "pk",
		PartitionValue: fixture.IDWithPrefix("e2e-never"),
		SortName:       "sk",
		SortValue:      "PROFILE",
	}, &retry.Policy{Attempts: 2, Pause: 500 * time.Millisecond})
	if err == nil {
		t.Fatal("expected ErrNotFound for a record that never appears")
	}
}
