package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/gemmology-dev/crystal-api/internal/domain/cdl"
)

// validateOutput mirrors the /api/validate response shape and adds the parser
// warnings, which the HTTP response does not carry.
type validateOutput struct {
	Valid  bool            `json:"valid"`
	Error  string          `json:"error,omitempty"`
	Parsed *validateParsed `json:"parsed,omitempty"`
}

type validateParsed struct {
	System     string         `json:"system"`
	PointGroup string         `json:"pointGroup"`
	FormsCount int            `json:"formsCount"`
	Forms      []validateForm `json:"forms"`
	Warnings   []string       `json:"warnings,omitempty"`
}

type validateForm struct {
	Miller string  `json:"miller"`
	Scale  float64 `json:"scale"`
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <cdl|->",
		Short: "Parse a CDL expression and print the validation result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx := getCLIContext(cmd)
			text, err := readCDLArg(args[0])
			if err != nil {
				return err
			}

			out := validateOutput{}
			parsed, err := cliCtx.Service.Validate(cmd.Context(), text)
			if err != nil {
				out.Error = err.Error()
			} else {
				leaves := cdl.FlattenForms(parsed.Forms)
				forms := make([]validateForm, 0, len(leaves))
				for _, f := range leaves {
					forms = append(forms, validateForm{Miller: f.Miller.String(), Scale: f.Scale})
				}
				out.Valid = true
				out.Parsed = &validateParsed{
					System:     string(parsed.System),
					PointGroup: parsed.PointGroup,
					FormsCount: len(leaves),
					Forms:      forms,
					Warnings:   parsed.Warnings,
				}
			}

			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			return writeOutput(cmd, outputFlag(cmd), append(data, '\n'))
		},
	}
}
