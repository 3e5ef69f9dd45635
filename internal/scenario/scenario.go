package scenario

import (
	"fmt"
	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/util"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
	"os"
	"sort"
	"time"
)

const defaultControllerId = "scenario"

// Step delivers one inbound message at a point in virtual time
type Step struct {
	At      time.Duration `json:"at"`
	Topic   string        `json:"topic"`
	Payload interface{}   `json:"payload"`
}

// Scenario is a deterministic replay of inbound messages against a single controller
type Scenario struct {
	Controller configuration.ControllerConfig `json:"controller"`
	// virtual time to simulate, defaults to one tick after the last step
	Duration time.Duration `json:"duration"`
	Steps    []Step        `json:"steps"`
}

func Load(path string) (*Scenario, error) {
	path, err := util.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func Parse(data []byte) (*Scenario, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	var s Scenario
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       configuration.DecodeHook(),
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if err := s.prepare(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) prepare() error {
	if len(s.Controller.ID) <= 0 {
		s.Controller.ID = defaultControllerId
	}
	if s.Controller.FireTimeout <= 0 {
		s.Controller.FireTimeout = configuration.DefaultFireTimeout
	}
	if err := configuration.ValidateController(s.Controller); err != nil {
		return err
	}

	sort.SliceStable(s.Steps, func(i, j int) bool {
		return s.Steps[i].At < s.Steps[j].At
	})

	for idx, step := range s.Steps {
		if step.At < 0 {
			return fmt.Errorf("step %d: at must be >= 0", idx)
		}
	}

	if s.Duration <= 0 {
		if len(s.Steps) > 0 {
			s.Duration = s.Steps[len(s.Steps)-1].At
		}
		s.Duration += s.Controller.TickInterval()
	}
	if len(s.Steps) > 0 && s.Steps[len(s.Steps)-1].At > s.Duration {
		return fmt.Errorf("step at %s is after the end of the scenario (%s)", s.Steps[len(s.Steps)-1].At, s.Duration)
	}
	return nil
}
