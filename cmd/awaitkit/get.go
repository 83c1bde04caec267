package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"

	"github.com/driftwoodlabs/awaitkit/retry"
	"github.com/driftwoodlabs/awaitkit/store"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Poll a table until an item appears",
	Long: `Poll a table by primary key until the item appears, then print it
as JSON.

Example:
  awaitkit get --table orders --pk ORDER#1
  awaitkit get --table orders --pk ORDER#1 --sk-name kind --sk RECEIPT \
      --attempts 20 --pause 1s`,
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().String("table", "", "table to poll (required)")
	getCmd.Flags().String("pk-name", "pk", "partition key attribute name")
	getCmd.Flags().String("pk", "", "partition key value (required)")
	getCmd.Flags().String("sk-name", "sk", "sort key attribute name")
	getCmd.Flags().String("sk", "", "sort key value (omitted when empty)")
	getCmd.Flags().Int("attempts", retry.DefaultAttempts, "maximum attempts")
	getCmd.Flags().Duration("pause", retry.DefaultPause, "pause between attempts")
	getCmd.Flags().String("region", "", "AWS region override")
	_ = getCmd.MarkFlagRequired("table")
	_ = getCmd.MarkFlagRequired("pk")
}

func runGet(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	ctx := cmd.Context()

	table, _ := cmd.Flags().GetString("table")
	pkName, _ := cmd.Flags().GetString("pk-name")
	pkValue, _ := cmd.Flags().GetString("pk")
	skName, _ := cmd.Flags().GetString("sk-name")
	skValue, _ := cmd.Flags().GetString("sk")
	attempts, _ := cmd.Flags().GetInt("attempts")
	pause, _ := cmd.Flags().GetDuration("pause")

	client, err := newDynamoClient(ctx, cmd)
	if err != nil {
		return err
	}
	s := store.New(client, store.WithLogger(logger))

	logger.Info("polling for item",
		"table", table,
		"key", pkValue,
		"attempts", attempts,
		"pause", pause.String(),
	)

	item, err := s.GetItem(ctx, table, store.Key{
		PartitionName:  pkName,
		PartitionValue: pkValue,
		SortName:       skName,
		SortValue:      skValue,
	}, &retry.Policy{Attempts: attempts, Pause: pause})
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	var record map[string]any
	if err := item.Unmarshal(&record); err != nil {
		return fmt.Errorf("decode item: %w", err)
	}
	return printJSON(record)
}

// newDynamoClient builds a DynamoDB client from the standard AWS config
// chain, honoring the --region flag when set.
func newDynamoClient(ctx context.Context, cmd *cobra.Command) (*dynamodb.Client, error) {
	region, _ := cmd.Flags().GetString("region")

	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}
