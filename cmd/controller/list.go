package controller

import (
	"github.com/markusressel/pid2go/cmd/global"
	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/markusressel/pid2go/internal/util"
	"github.com/spf13/cobra"
	"strconv"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the configured controllers to console",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		err := configuration.Validate(configPath)
		if err != nil {
			ui.Fatal("%v", err)
		}

		var rows [][]string
		for _, c := range configuration.CurrentConfig.Controllers {
			rows = append(rows, []string{
				c.ID,
				c.Topic,
				util.FormatFloat(c.Kp),
				util.FormatFloat(c.Ki),
				util.FormatFloat(c.Kd),
				c.TickInterval().String(),
				util.FormatOptionalFloat(c.SetPoint.Ptr(), "-"),
				util.FormatFloat(c.DeadBand),
				c.FireTimeout.String(),
				strconv.FormatBool(c.LegacyQuantization.Get()),
			})
		}

		tableString, err := ui.RenderTable(
			[]string{"ID", "Topic", "Kp", "Ki", "Kd", "Tick", "SetPoint", "DeadBand", "FireTimeout", "Legacy"},
			rows,
			!global.NoColor,
		)
		if err != nil {
			return err
		}
		ui.Printfln("%s", tableString)
		return nil
	},
}

func init() {
	Command.AddCommand(listCmd)
}
