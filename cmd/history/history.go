package history

import (
	"errors"
	"github.com/markusressel/pid2go/cmd/controller"
	"github.com/markusressel/pid2go/cmd/global"
	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/persistence"
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/markusressel/pid2go/internal/util"
	"github.com/spf13/cobra"
	"os"
	"time"
)

var (
	controllerId string
	limit        int
	clearJournal bool
)

var Command = &cobra.Command{
	Use:   "history",
	Short: "Print the output journal of a controller",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		p := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
		if len(controllerId) <= 0 {
			return printJournals(p)
		}

		_, err := controller.GetControllerConfig(controllerId, configuration.CurrentConfig.Controllers)
		if err != nil {
			return err
		}

		if clearJournal {
			err = p.DeleteOutputRecords(controllerId)
			if err != nil {
				return err
			}
			ui.Success("Journal of %s deleted", controllerId)
			return nil
		}

		records, err := p.LoadOutputRecords(controllerId, limit)
		if errors.Is(err, os.ErrNotExist) {
			ui.Warning("No journal found for controller %s", controllerId)
			return nil
		} else if err != nil {
			return err
		}

		var rows [][]string
		var values []float64
		for _, record := range records {
			rows = append(rows, []string{
				record.Time.Local().Format(time.DateTime),
				record.Mode,
				util.FormatFloat(record.Forward),
				util.FormatFloat(record.Reverse),
			})
			values = append(values, record.Forward-record.Reverse)
		}

		tableString, err := ui.RenderTable([]string{"Time", "Mode", "Forward", "Reverse"}, rows, !global.NoColor)
		if err != nil {
			return err
		}
		ui.Printfln("%s", tableString)

		if graph := ui.RenderGraph(values, "signed output / record"); len(graph) > 0 {
			ui.Printfln("%s", graph)
		}
		minimum, maximum := util.MinMax(values)
		ui.Info("%d records, signed output between %s and %s", len(records), util.FormatFloat(minimum), util.FormatFloat(maximum))
		return nil
	},
}

// printJournals lists the controllers that have a journal
func printJournals(p persistence.Persistence) error {
	ids, err := p.LoadControllerIds()
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(ids) <= 0) {
		ui.Warning("No journals found in %s", configuration.CurrentConfig.DbPath)
		return nil
	} else if err != nil {
		return err
	}

	rows := journalRows(ids, configuration.CurrentConfig.Controllers)
	tableString, err := ui.RenderTable([]string{"Controller", "Configured"}, rows, !global.NoColor)
	if err != nil {
		return err
	}
	ui.Printfln("%s", tableString)
	return nil
}

// journalRows marks every journal whose controller is no longer configured
func journalRows(ids []string, controllers []configuration.ControllerConfig) [][]string {
	var rows [][]string
	for _, id := range ids {
		configured := "yes"
		if _, err := controller.GetControllerConfig(id, controllers); err != nil {
			configured = "no"
		}
		rows = append(rows, []string{id, configured})
	}
	return rows
}

func init() {
	Command.Flags().StringVarP(&controllerId, "id", "i", "", "Controller ID as specified in the config, lists all journals if omitted")
	Command.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of records, 0 for all")
	Command.Flags().BoolVarP(&clearJournal, "clear", "", false, "Delete the journal instead of printing it")
}
