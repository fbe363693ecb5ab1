package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eleven-am/couchstorm/pkg/bucket"
)

var (
	upsertKey    string
	upsertPrefix string
	upsertData   string
	upsertExpiry time.Duration
)

var getCmd = &cobra.Command{
	Use:   "get <key>...",
	Short: "Fetch documents by key",
	Long: `Fetches one or more documents and prints them as a JSON object keyed by
document key. Missing documents are left out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGet,
}

var upsertCmd = &cobra.Command{
	Use:   "upsert",
	Short: "Create or replace a document",
	Long: `Writes the JSON given in --data under --key. Without --key a random key is
generated, namespaced by --prefix when given.`,
	RunE: runUpsert,
}

var removeCmd = &cobra.Command{
	Use:   "remove <key>",
	Short: "Remove a document by key",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	upsertCmd.Flags().StringVarP(&upsertKey, "key", "k", "", "Document key")
	upsertCmd.Flags().StringVar(&upsertPrefix, "prefix", "", "Prefix for a generated key")
	upsertCmd.Flags().StringVarP(&upsertData, "data", "d", "", "Document body as JSON")
	upsertCmd.Flags().DurationVar(&upsertExpiry, "expiry", 0, "Document expiry (0 keeps it until removed)")
	_ = upsertCmd.MarkFlagRequired("data")
}

func runGet(cmd *cobra.Command, args []string) error {
	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.Close()

	docs, err := s.repo.GetByKeys(context.Background(), args...)
	if err != nil {
		return err
	}

	return writeJSON(cmd, docs)
}

func runUpsert(cmd *cobra.Command, args []string) error {
	var value interface{}
	if err := json.Unmarshal([]byte(upsertData), &value); err != nil {
		return fmt.Errorf("invalid document JSON: %w", err)
	}

	key := upsertKey
	if key == "" {
		key = bucket.NewDocumentKey(upsertPrefix)
	}

	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.repo.Upsert(context.Background(), key, value, upsertExpiry); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), key)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.repo.Remove(context.Background(), args[0]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
	return nil
}
