// Package fixture seeds DynamoDB tables with test records and generates
// identifiers for isolating test data.
package fixture

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/driftwoodlabs/awaitkit/store"
)

// ID returns a random identifier for test records.
func ID() string {
	return uuid.NewString()
}

// IDWithPrefix returns a type-qualified random identifier, e.g.
// "order#2f1c...".
func IDWithPrefix(prefix string) string {
	return prefix + "#" + uuid.NewString()
}

// Seed loads records from a YAML file and writes each one to table,
// returning the number written. The file holds a list of attribute maps:
//
//   - pk: USER#1
//     name: Ada
//   - pk: USER#2
//     name: Grace
//     active: true
func Seed(ctx context.Context, s *store.Store, table, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read fixture file: %w", err)
	}

	var records []map[string]any
	if err := yaml.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("parse fixture file %s: %w", path, err)
	}

	return SeedRecords(ctx, s, table, records)
}

// SeedRecords writes each record to table in order, stopping at the
// first failure and returning how many records were written.
func SeedRecords(ctx context.Context, s *store.Store, table string, records []map[string]any) (int, error) {
	for i, record := range records {
		if err := s.PutItem(ctx, table, record); err != nil {
			return i, fmt.Errorf("seed record %d: %w", i, err)
		}
	}
	return len(records), nil
}
