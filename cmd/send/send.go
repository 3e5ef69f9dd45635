package send

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/markusressel/pid2go/internal/api"
	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/pid"
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/spf13/cobra"
	"net/http"
	"net/url"
	"time"
)

const requestTimeout = 5 * time.Second

var (
	controllerId string
	topic        string
	payload      string
)

var Command = &cobra.Command{
	Use:   "send",
	Short: "Send a message to a controller of the running daemon",
	Long: `Posts a message to the api of the running daemon.
The payload "true" and "false" is sent as a flag, numbers as numeric values.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configuration.DetectAndReadConfigFile()
		ui.Debug("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		apiConfig := configuration.CurrentConfig.Api
		if !apiConfig.Enabled {
			ui.Warning("The api is disabled in %s, the daemon will not accept messages", configPath)
		}

		msg := pid.Message{Topic: topic, Payload: pid.ParsePayload(payload)}
		if !msg.Payload.IsValid() {
			ui.Warning("Payload '%s' is neither a number nor a boolean, the controller will ignore it", payload)
		}

		result, err := PostMessage(BaseUrl(apiConfig), controllerId, msg)
		if err != nil {
			return err
		}
		ui.Success("%s", result.Message)
		return nil
	},
}

func init() {
	Command.Flags().StringVarP(&controllerId, "id", "i", "", "Controller ID as specified in the config")
	Command.Flags().StringVarP(&topic, "topic", "t", "", "Topic of the message")
	Command.Flags().StringVarP(&payload, "payload", "p", "", "Payload of the message")
	_ = Command.MarkFlagRequired("id")
	_ = Command.MarkFlagRequired("payload")
}

// BaseUrl returns the url of the api of a locally running daemon
func BaseUrl(config configuration.ApiConfig) string {
	return "http://" + config.ClientAddress()
}

// PostMessage posts msg to the input endpoint of the given controller
func PostMessage(baseUrl string, id string, msg pid.Message) (*api.Result, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	target := baseUrl + "/controller/" + url.PathEscape(id) + "/input/"
	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Post(target, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unable to reach daemon: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var result api.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("unexpected response (%s): %w", resp.Status, err)
	}
	if resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("%s: %s", result.Name, result.Message)
	}
	return &result, nil
}
