package main

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spf13/cobra"

	"github.com/driftwoodlabs/awaitkit/retry"
	"github.com/driftwoodlabs/awaitkit/store"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Poll a query until it matches",
	Long: `Poll a key-condition query until the page is non-empty or carries a
continuation key, then print the items as JSON.

Value placeholders are given as name=value pairs and sent as strings:

  awaitkit query --table orders \
      --key-condition "pk = :pk AND begins_with(sk, :prefix)" \
      --value :pk=USER#1 --value :prefix=ORDER#

  awaitkit query --table orders --index by-status \
      --key-condition "#st = :st" --name "#st=status" --value :st=SHIPPED \
      --filter "attribute_exists(shipped_at)" --limit 5 --descending`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().String("table", "", "table to query (required)")
	queryCmd.Flags().String("key-condition", "", "key condition expression (required)")
	queryCmd.Flags().StringArray("value", nil, "value placeholder, name=value (repeatable)")
	queryCmd.Flags().StringArray("name", nil, "name placeholder, placeholder=attribute (repeatable)")
	queryCmd.Flags().String("filter", "", "filter expression")
	queryCmd.Flags().StringArray("filter-value", nil, "filter value placeholder, name=value (repeatable)")
	queryCmd.Flags().String("index", "", "GSI/LSI name")
	queryCmd.Flags().Int32("limit", 0, "page size cap (0 = none)")
	queryCmd.Flags().Bool("descending", false, "sort descending by the native sort key")
	queryCmd.Flags().Bool("consistent", false, "use a strongly consistent read")
	queryCmd.Flags().Int("attempts", retry.DefaultAttempts, "maximum attempts")
	queryCmd.Flags().Duration("pause", retry.DefaultPause, "pause between attempts")
	queryCmd.Flags().String("region", "", "AWS region override")
	_ = queryCmd.MarkFlagRequired("table")
	_ = queryCmd.MarkFlagRequired("key-condition")
}

func runQuery(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	ctx := cmd.Context()

	table, _ := cmd.Flags().GetString("table")
	keyCondition, _ := cmd.Flags().GetString("key-condition")
	valuePairs, _ := cmd.Flags().GetStringArray("value")
	namePairs, _ := cmd.Flags().GetStringArray("name")
	filter, _ := cmd.Flags().GetString("filter")
	filterPairs, _ := cmd.Flags().GetStringArray("filter-value")
	index, _ := cmd.Flags().GetString("index")
	limit, _ := cmd.Flags().GetInt32("limit")
	descending, _ := cmd.Flags().GetBool("descending")
	consistent, _ := cmd.Flags().GetBool("consistent")
	attempts, _ := cmd.Flags().GetInt("attempts")
	pause, _ := cmd.Flags().GetDuration("pause")

	values, err := parseValuePairs(valuePairs)
	if err != nil {
		return err
	}
	filterValues, err := parseValuePairs(filterPairs)
	if err != nil {
		return err
	}
	names, err := parseNamePairs(namePairs)
	if err != nil {
		return err
	}

	client, err := newDynamoClient(ctx, cmd)
	if err != nil {
		return err
	}
	s := store.New(client, store.WithLogger(logger))

	input := store.QueryInput{
		TableName:                 table,
		KeyConditionExpression:    keyCondition,
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  names,
		IndexName:                 index,
		Limit:                     limit,
		FilterExpression:          filter,
		FilterValues:              filterValues,
		Retry:                     &retry.Policy{Attempts: attempts, Pause: pause},
	}
	if descending {
		input.ScanIndexForward = aws.Bool(false)
	}
	if consistent {
		input.ConsistentRead = aws.Bool(true)
	}

	logger.Info("polling query",
		"table", table,
		"keyCondition", keyCondition,
		"attempts", attempts,
		"pause", pause.String(),
	)

	page, err := s.Query(ctx, input)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	records := make([]map[string]any, 0, len(page.Items))
	for _, item := range page.Items {
		var record map[string]any
		if err := item.Unmarshal(&record); err != nil {
			return fmt.Errorf("decode item: %w", err)
		}
		records = append(records, record)
	}

	if page.LastEvaluatedKey != nil {
		var startKey map[string]any
		if err := attributevalue.UnmarshalMap(page.LastEvaluatedKey, &startKey); err == nil {
			logger.Info("more results available", "lastEvaluatedKey", startKey)
		}
	}

	return printJSON(records)
}

// parseValuePairs turns ":pk=USER#1" pairs into string attribute values.
func parseValuePairs(pairs []string) (map[string]types.AttributeValue, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	values := make(map[string]types.AttributeValue, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed value pair %q, want name=value", pair)
		}
		values[name] = &types.AttributeValueMemberS{Value: value}
	}
	return values, nil
}

// parseNamePairs turns "#st=status" pairs into a name placeholder map.
func parseNamePairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	names := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		placeholder, attr, ok := strings.Cut(pair, "=")
		if !ok || placeholder == "" || attr == "" {
			return nil, fmt.Errorf("malformed name pair %q, want placeholder=attribute", pair)
		}
		names[placeholder] = attr
	}
	return names, nil
}
