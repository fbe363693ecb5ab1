package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eleven-am/couchstorm/pkg/n1ql"
)

var renderFile string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a query definition without executing it",
	Long: `Reads a YAML query definition and prints the N1QL statement together with
its named parameters as JSON. No cluster connection is made.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderFile, "file", "f", "", "Query definition file")
	_ = renderCmd.MarkFlagRequired("file")
}

type renderedQuery struct {
	Statement  string                `json:"statement"`
	Parameters map[string]n1ql.Param `json:"parameters"`
}

func runRender(cmd *cobra.Command, args []string) error {
	qb, err := builderFromFile(renderFile)
	if err != nil {
		return err
	}

	statement, err := qb.Query()
	if err != nil {
		return err
	}

	return writeJSON(cmd, renderedQuery{
		Statement:  statement,
		Parameters: qb.Parameters(),
	})
}

func builderFromFile(path string) (*n1ql.QueryBuilder, error) {
	def, err := LoadQueryDefinition(path)
	if err != nil {
		return nil, err
	}

	qb, err := def.Builder(bucketName)
	if err != nil {
		return nil, fmt.Errorf("invalid query definition %s: %w", path, err)
	}

	return qb, nil
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
