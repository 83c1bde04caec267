// Package store polls DynamoDB until expected records appear.
//
// Serverless workflows are asynchronous: a test triggers some entry point
// and the observable effect (a record in a table) lands later. The two
// pollers in this package bridge that gap by retrying a read until it
// sees data, on a bounded fixed-interval budget.
//
// # Pollers
//
//   - [Store.GetItem] resolves a single [Key], succeeding on the first
//     attempt where the store returns a defined item.
//   - [Store.Query] resolves a [QueryInput] to a [Page], succeeding on
//     the first page that is non-empty or carries a continuation key.
//     An empty page with a continuation key counts as success; the store
//     is telling us there may be more, so polling further would be wrong.
//
// Both pollers treat an error from DynamoDB as fatal to the current call.
// Store errors are not assumed transient; retrying them would mask
// genuine failures (bad keys, missing permissions) as "still polling".
//
// # Construction
//
// The DynamoDB client is injected, never constructed implicitly:
//
//	client := dynamodb.NewFromConfig(cfg)
//	s := store.New(client)
//
//	item, err := s.GetItem(ctx, "orders", store.Key{
//	    PartitionName:  "pk",
//	    PartitionValue: "ORDER#" + id,
//	}, nil) // nil policy: 10 attempts, 2s apart
//
// # Errors
//
//   - [ErrNotFound] / [ErrNoResults] - the retry budget ran out; both
//     match [retry.ErrExhausted] under errors.Is.
//   - [ErrMissingTable], [ErrMissingPartitionKey], [ErrMissingSortName],
//     [ErrMissingKeyCondition] - malformed input, surfaced before any
//     store call is made.
//   - anything else - passed through from the DynamoDB client unchanged.
package store
