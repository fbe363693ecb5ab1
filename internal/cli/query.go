package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eleven-am/couchstorm/pkg/n1ql"
)

var (
	queryFile      string
	queryStatement string
	queryParams    []string
	queryNoCache   bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Execute a query against the bucket",
	Long: `Executes either a YAML query definition (--file) or a hand-written
statement (--statement) and prints the normalized rows as JSON.

Parameters for a hand-written statement are given as --param name=value.
Integer values are sent as numbers, everything else as strings.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryFile, "file", "f", "", "Query definition file")
	queryCmd.Flags().StringVarP(&queryStatement, "statement", "s", "", "N1QL statement to execute")
	queryCmd.Flags().StringArrayVarP(&queryParams, "param", "p", nil, "Named parameter as name=value (repeatable)")
	queryCmd.Flags().BoolVar(&queryNoCache, "no-cache", false, "Bypass the query cache")
	queryCmd.MarkFlagsMutuallyExclusive("file", "statement")
	queryCmd.MarkFlagsOneRequired("file", "statement")
}

type queryOutput struct {
	Count      int           `json:"count"`
	TotalCount int           `json:"total_count"`
	Rows       []interface{} `json:"rows"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var qb *n1ql.QueryBuilder
	var params map[string]n1ql.Param
	if queryFile != "" {
		var err error
		qb, err = builderFromFile(queryFile)
		if err != nil {
			return err
		}
		// Fail before connecting when the definition cannot be rendered.
		if _, err := qb.Query(); err != nil {
			return err
		}
	} else {
		var err error
		params, err = parseParams(queryParams)
		if err != nil {
			return err
		}
	}

	s, err := openSession(!queryNoCache)
	if err != nil {
		return err
	}
	defer s.Close()

	if qb != nil {
		result, err := s.repo.GetResult(ctx, qb)
		if err != nil {
			return err
		}
		return writeJSON(cmd, queryOutput{
			Count:      result.Count(),
			TotalCount: result.TotalCount(),
			Rows:       result.Rows(),
		})
	}

	rows, err := s.repo.ExecuteQuery(ctx, queryStatement, params)
	if err != nil {
		return err
	}
	return writeJSON(cmd, queryOutput{
		Count:      len(rows),
		TotalCount: len(rows),
		Rows:       rows,
	})
}

func parseParams(raw []string) (map[string]n1ql.Param, error) {
	params := make(map[string]n1ql.Param, len(raw))

	for _, p := range raw {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimPrefix(strings.TrimSpace(name), "$")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected name=value", p)
		}

		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			params[name] = n1ql.IntParam(n)
		} else {
			params[name] = n1ql.StringParam(value)
		}
	}

	return params, nil
}
