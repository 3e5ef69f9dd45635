package statistics

import (
	"github.com/markusressel/pid2go/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "pid2go"
)

// RegisterControllers creates a collector for the given controllers and
// registers it with registerer
func RegisterControllers(registerer prometheus.Registerer, controllers []controller.PidController) (*ControllerCollector, error) {
	collector := NewControllerCollector(controllers)
	if err := registerer.Register(collector); err != nil {
		return nil, err
	}
	return collector, nil
}
