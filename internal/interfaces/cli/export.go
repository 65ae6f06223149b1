package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCommand() *cobra.Command {
	var scale float64

	cmd := &cobra.Command{
		Use:   "export <stl|gltf> <cdl|->",
		Short: "Export a CDL expression as STL or glTF",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx := getCLIContext(cmd)
			text, err := readCDLArg(args[1])
			if err != nil {
				return err
			}

			var out []byte
			switch args[0] {
			case "stl":
				out, err = cliCtx.Service.ExportSTL(cmd.Context(), text, scale)
			case "gltf":
				out, err = cliCtx.Service.ExportGLTF(cmd.Context(), text, scale)
			default:
				return fmt.Errorf("unknown export format %q; expected stl or gltf", args[0])
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd, outputFlag(cmd), out)
		},
	}

	cmd.Flags().Float64Var(&scale, "scale", 0, "export scale (0 uses the format default)")
	return cmd
}
