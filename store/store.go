package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/driftwoodlabs/awaitkit/retry"
)

// Store polls DynamoDB tables for records that are expected to appear.
// Stores are stateless across calls and safe for concurrent use.
type Store struct {
	client  Client
	logger  *slog.Logger
	sleeper retry.Sleeper
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for attempt-level debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSleeper replaces the pause primitive used between attempts.
func WithSleeper(sleeper retry.Sleeper) Option {
	return func(s *Store) {
		if sleeper != nil {
			s.sleeper = sleeper
		}
	}
}

// New creates a Store around an injected DynamoDB client.
func New(client Client, opts ...Option) *Store {
	s := &Store{
		client:  client,
		logger:  slog.Default(),
		sleeper: retry.StandardSleeper{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetItem retrieves the record identified by key from table, retrying on
// the given policy until the store returns a defined item. Presence is
// the success criterion; no field values are inspected.
//
// A nil policy means the defaults (10 attempts, 2s apart). Returns
// ErrNotFound once the budget is exhausted. Errors from the store itself
// are returned immediately, never retried.
func (s *Store) GetItem(ctx context.Context, table string, key Key, policy *retry.Policy) (Item, error) {
	if table == "" {
		return nil, ErrMissingTable
	}
	keyMap, err := key.attributeValues()
	if err != nil {
		return nil, err
	}

	attempts := 0
	item, err := retry.Do(ctx, policy, s.sleeper,
		func(ctx context.Context) (Item, error) {
			attempts++
			out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
				TableName: aws.String(table),
				Key:       keyMap,
			})
			if err != nil {
				return nil, err
			}
			if out.Item == nil {
				s.logger.Debug("item not yet present",
					"table", table,
					"key", key.PartitionValue,
					"attempt", attempts,
				)
				return nil, nil
			}
			return Item(out.Item), nil
		},
		func(item Item) bool { return item != nil },
	)
	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			return nil, fmt.Errorf("get %s: %w", table, ErrNotFound)
		}
		return nil, err
	}
	return item, nil
}

// Query runs the collection poller, retrying until a page has at least
// one item or carries a continuation key. An empty page with a
// continuation key is success, not grounds for another attempt.
//
// Returns ErrNoResults once the budget is exhausted. Errors from the
// store itself are returned immediately, never retried.
func (s *Store) Query(ctx context.Context, input QueryInput) (Page, error) {
	qi, err := input.build()
	if err != nil {
		return Page{}, err
	}

	attempts := 0
	page, err := retry.Do(ctx, input.Retry, s.sleeper,
		func(ctx context.Context) (Page, error) {
			attempts++
			out, err := s.client.Query(ctx, qi)
			if err != nil {
				return Page{}, err
			}
			if len(out.Items) == 0 && out.LastEvaluatedKey == nil {
				s.logger.Debug("query matched nothing yet",
					"table", input.TableName,
					"attempt", attempts,
				)
				return Page{}, nil
			}
			items := make([]Item, 0, len(out.Items))
			for _, raw := range out.Items {
				items = append(items, Item(raw))
			}
			return Page{Items: items, LastEvaluatedKey: out.LastEvaluatedKey}, nil
		},
		func(p Page) bool { return len(p.Items) > 0 || p.LastEvaluatedKey != nil },
	)
	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			return Page{}, fmt.Errorf("query %s: %w", input.TableName, ErrNoResults)
		}
		return Page{}, err
	}
	return page, nil
}

// PutItem writes one fixture record to table, single shot, no retry.
// record may be a struct or map marshalled via attributevalue, or an
// already-built Item / attribute value map which is written as-is.
func (s *Store) PutItem(ctx context.Context, table string, record any) error {
	if table == "" {
		return ErrMissingTable
	}

	var av map[string]types.AttributeValue
	switch r := record.(type) {
	case Item:
		av = r
	case map[string]types.AttributeValue:
		av = r
	default:
		m, err := attributevalue.MarshalMap(record)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		av = m
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("put %s: %w", table, err)
	}
	return nil
}
