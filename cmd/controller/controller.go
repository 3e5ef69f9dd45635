package controller

import (
	"fmt"
	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "controller",
	Short:            "Controller related commands",
	TraverseChildren: true,
}

// GetControllerConfig returns the configuration of the controller with the given id
func GetControllerConfig(id string, controllers []configuration.ControllerConfig) (*configuration.ControllerConfig, error) {
	var availableControllerIds []string
	for _, controllerConf := range controllers {
		availableControllerIds = append(availableControllerIds, controllerConf.ID)
		if id == controllerConf.ID {
			c := controllerConf
			return &c, nil
		}
	}

	return nil, fmt.Errorf("no controller with id found: %s, options: %s", id, availableControllerIds)
}
