package configuration

import (
	"fmt"
	"github.com/markusressel/pid2go/internal/ui"
	"golang.org/x/exp/slices"
)

func Validate(configPath string) error {
	return validateConfig(&CurrentConfig, configPath)
}

func validateConfig(config *Configuration, path string) error {
	if len(config.Controllers) <= 0 {
		return fmt.Errorf("no controllers configured in %s", path)
	}

	err := validateControllers(config)
	if err != nil {
		return err
	}

	if config.Api.Enabled {
		if err := validatePort("api", config.Api.Port); err != nil {
			return err
		}
	}
	if config.Statistics.Enabled {
		if err := validatePort("statistics", config.Statistics.Port); err != nil {
			return err
		}
	}
	if config.Api.Enabled && config.Statistics.Enabled && config.Api.Port == config.Statistics.Port {
		return fmt.Errorf("api and statistics cannot share port %d", config.Api.Port)
	}

	if config.JournalSize < 0 {
		return fmt.Errorf("journalSize must be >= 0, was %d", config.JournalSize)
	}

	return nil
}

func validatePort(name string, port int) error {
	if port <= 0 || port >= 65535 {
		return fmt.Errorf("%s: invalid port %d", name, port)
	}
	return nil
}

func validateControllers(config *Configuration) error {
	var ids []string
	for idx, controllerConfig := range config.Controllers {
		if len(controllerConfig.ID) <= 0 {
			return fmt.Errorf("controller at index %d: missing id", idx)
		}
		if slices.Contains(ids, controllerConfig.ID) {
			return fmt.Errorf("duplicate controller id detected: %s", controllerConfig.ID)
		}
		ids = append(ids, controllerConfig.ID)

		err := ValidateController(controllerConfig)
		if err != nil {
			return err
		}
	}
	return nil
}

// ValidateController checks a single controller configuration
func ValidateController(config ControllerConfig) error {
	if config.RecalcTime <= 0 {
		return fmt.Errorf("controller %s: recalcTime must be > 0", config.ID)
	}
	if config.TickInterval() < MinTickInterval {
		return fmt.Errorf("controller %s: recalcTime must be at least %s", config.ID, MinTickInterval)
	}
	if config.Kp == 0 {
		ui.Warning("Controller %s: kp is zero, the output will always be 0", config.ID)
	}
	if config.Ki < 0 {
		return fmt.Errorf("controller %s: ki must be >= 0", config.ID)
	}
	if config.Kd < 0 {
		return fmt.Errorf("controller %s: kd must be >= 0", config.ID)
	}
	if config.DeadBand < 0 {
		return fmt.Errorf("controller %s: deadBand must be >= 0", config.ID)
	}
	if config.FireTimeout < 0 {
		return fmt.Errorf("controller %s: fireTimeout must be > 0", config.ID)
	}
	if config.DeadBand > 0 && config.Ki > 0 && config.Kp/config.Ki > 2 {
		ui.Warning("Controller %s: kp/ki is greater than 2, the integral oscillates instead of decaying inside the deadband", config.ID)
	}

	err := validateTopics(config)
	if err != nil {
		return err
	}

	if config.Output.File != nil {
		fileConfig := config.Output.File
		if len(fileConfig.Forward) <= 0 || len(fileConfig.Reverse) <= 0 {
			return fmt.Errorf("controller %s: file output needs both a forward and a reverse path", config.ID)
		}
		if fileConfig.Forward == fileConfig.Reverse {
			return fmt.Errorf("controller %s: forward and reverse output paths must differ", config.ID)
		}
	}

	return nil
}

func validateTopics(config ControllerConfig) error {
	topics := []struct {
		name  string
		value string
	}{
		{"setPointTopic", config.SetPointTopic},
		{"fireTopic", config.FireTopic},
		{"fixedTopic", config.FixedTopic},
	}

	var seen []string
	for _, topic := range topics {
		if len(topic.value) <= 0 {
			continue
		}
		if slices.Contains(seen, topic.value) {
			return fmt.Errorf("controller %s: %s '%s' is already used by another topic", config.ID, topic.name, topic.value)
		}
		seen = append(seen, topic.value)
	}

	if len(config.SetPointTopic) <= 0 && !config.SetPoint.IsSet() {
		ui.Warning("Controller %s: neither setPoint nor setPointTopic configured, controller will wait for a setpoint forever", config.ID)
	}
	if len(config.FireTopic) <= 0 {
		ui.Warning("Controller %s: no fireTopic configured, fire interlock is unavailable", config.ID)
	}

	return nil
}
