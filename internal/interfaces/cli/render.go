package cli

import (
	"github.com/spf13/cobra"

	"github.com/gemmology-dev/crystal-api/internal/render/svg"
)

func newRenderCommand() *cobra.Command {
	var (
		elev   float64
		azim   float64
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "render <cdl|->",
		Short: "Render a CDL expression to SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx := getCLIContext(cmd)
			text, err := readCDLArg(args[0])
			if err != nil {
				return err
			}

			out, err := cliCtx.Service.RenderSVG(cmd.Context(), text, svg.Params{
				ElevDeg: elev,
				AzimDeg: azim,
				Width:   width,
				Height:  height,
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd, outputFlag(cmd), out)
		},
	}

	cmd.Flags().Float64Var(&elev, "elev", svg.DefaultElev, "camera elevation in degrees [-90, 90]")
	cmd.Flags().Float64Var(&azim, "azim", svg.DefaultAzim, "camera azimuth in degrees [-180, 180]")
	cmd.Flags().IntVar(&width, "width", svg.DefaultWidth, "canvas width in pixels")
	cmd.Flags().IntVar(&height, "height", svg.DefaultHeight, "canvas height in pixels")
	return cmd
}
