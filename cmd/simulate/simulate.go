package simulate

import (
	"github.com/markusressel/pid2go/cmd/global"
	"github.com/markusressel/pid2go/internal/scenario"
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/markusressel/pid2go/internal/util"
	"github.com/spf13/cobra"
)

var (
	scenarioFile string
	showStatus   bool
	showPlot     bool
	legacy       bool
)

var Command = &cobra.Command{
	Use:   "simulate",
	Short: "Replay a scenario file against a controller in virtual time",
	Long: `Runs a controller on a virtual clock and feeds it the messages of a scenario file.
The emitted output pairs are printed as a table and plotted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := scenario.Load(scenarioFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("legacy") {
			s.Controller.LegacyQuantization.SetOverride(legacy)
		}

		ui.Info("Simulating controller %s for %s (%d steps)", s.Controller.ID, s.Duration, len(s.Steps))
		trace := scenario.Run(s)

		var rows [][]string
		var values []float64
		for _, entry := range trace.Emissions {
			rows = append(rows, []string{
				entry.At.String(),
				entry.Mode.String(),
				util.FormatFloat(entry.Pair.Forward()),
				util.FormatFloat(entry.Pair.Reverse()),
			})
			values = append(values, entry.Pair.Signed())
		}

		tableString, err := ui.RenderTable([]string{"At", "Mode", "Forward", "Reverse"}, rows, !global.NoColor)
		if err != nil {
			return err
		}
		ui.Printfln("%s", tableString)

		if showStatus {
			var statusRows [][]string
			for _, entry := range trace.Statuses {
				statusRows = append(statusRows, []string{
					entry.At.String(),
					entry.Status.Text,
					string(entry.Status.Fill),
					string(entry.Status.Shape),
				})
			}
			tableString, err = ui.RenderTable([]string{"At", "Status", "Fill", "Shape"}, statusRows, !global.NoColor)
			if err != nil {
				return err
			}
			ui.Printfln("%s", tableString)
		}

		if showPlot {
			if graph := ui.RenderGraph(values, "signed output / emission"); len(graph) > 0 {
				ui.Printfln("%s", graph)
			}
		}

		minimum, maximum := util.MinMax(values)
		ui.Info("%d emissions, signed output between %s and %s", len(values), util.FormatFloat(minimum), util.FormatFloat(maximum))

		final := trace.Final
		ui.Info("Final mode: %s, integral: %s, emitted: %d, ignored: %d",
			final.Mode, util.FormatFloat(final.Integral), final.Counters.Emitted, final.Counters.Ignored)
		return nil
	},
}

func init() {
	Command.Flags().StringVarP(&scenarioFile, "scenario", "s", "", "Scenario file (yaml)")
	Command.Flags().BoolVarP(&showStatus, "status", "", false, "Print status changes")
	Command.Flags().BoolVarP(&showPlot, "plot", "p", true, "Plot the emitted outputs")
	Command.Flags().BoolVarP(&legacy, "legacy", "", true, "Override the legacy output quantization of the scenario")
	_ = Command.MarkFlagRequired("scenario")
}
