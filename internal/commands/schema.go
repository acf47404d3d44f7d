package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/port402/anything-cli/internal/anything"
	"github.com/port402/anything-cli/internal/output"
)

// validationResult is printed by schema --validate.
type validationResult struct {
	Contract string `json:"contract"`
	File     string `json:"file"`
	Valid    bool   `json:"valid"`
	Error    string `json:"error,omitempty"`
}

func (c *cli) schemaCmd() *cobra.Command {
	var validatePath string

	cmd := &cobra.Command{
		Use:   "schema [request|response]",
		Short: "Print or check the request/response contracts",
		Long: `Print the JSON Schema of the endpoint's request or response body.
Without an argument both schemas are printed, keyed by contract name.

With --validate, the given JSON file is checked against the contract
(response by default) instead.

Examples:
  anything schema response
  anything schema --validate captured.json
  anything schema request --validate body.json`,
		ValidArgs: anything.Contracts,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if validatePath != "" {
				contract := anything.ContractResponse
				if len(args) == 1 {
					contract = args[0]
				}
				return runValidate(cmd, contract, validatePath)
			}
			return runSchema(cmd, args)
		},
	}

	cmd.Flags().StringVar(&validatePath, "validate", "", "JSON file to check against the contract")
	return cmd
}

func runSchema(cmd *cobra.Command, args []string) error {
	contracts := anything.Contracts
	if len(args) == 1 {
		contracts = args
	}

	schemas := make(map[string]json.RawMessage, len(contracts))
	for _, contract := range contracts {
		raw, err := anything.Schema(contract)
		if err != nil {
			return fmt.Errorf("generating %s schema: %w", contract, err)
		}
		schemas[contract] = raw
	}

	if len(args) == 1 {
		return output.PrintJSON(cmd.OutOrStdout(), schemas[args[0]])
	}
	return output.PrintJSON(cmd.OutOrStdout(), schemas)
}

func runValidate(cmd *cobra.Command, contract, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &exitError{code: 1, err: fmt.Errorf("reading %s: %w", path, err)}
	}

	result := validationResult{Contract: contract, File: path, Valid: true}
	if verr := anything.Validate(contract, data); verr != nil {
		result.Valid = false
		result.Error = verr.Error()
	}

	if err := output.PrintJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if !result.Valid {
		return &exitError{code: 1}
	}
	return nil
}
