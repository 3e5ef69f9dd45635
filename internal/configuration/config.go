package configuration

import (
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"os"
	"time"
)

type Configuration struct {
	DbPath string `json:"dbPath"`
	// maximum number of journal records kept per controller
	JournalSize int `json:"journalSize"`

	Api        ApiConfig        `json:"api"`
	Statistics StatisticsConfig `json:"statistics"`

	Controllers []ControllerConfig `json:"controllers"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("pid2go")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/pid2go/")
	}

	viper.SetEnvPrefix("PID2GO")
	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbPath", "/etc/pid2go/pid2go.db")
	viper.SetDefault("journalSize", 1000)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9001)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("controllers", []ControllerConfig{})
}

// DetectAndReadConfigFile reads the config file and returns its path
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		// config file is required, so we fail here
		ui.Fatal("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

func LoadConfig() {
	err := viper.Unmarshal(&CurrentConfig, viper.DecodeHook(DecodeHook()))
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
	applyControllerDefaults(&CurrentConfig)
}

// DecodeHook returns the hooks needed to decode a Configuration
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		OptionalFloatHookFunc(),
		DefaultTrueBoolHookFunc(),
	)
}

func applyControllerDefaults(config *Configuration) {
	for i := range config.Controllers {
		c := &config.Controllers[i]
		if c.FireTimeout <= 0 {
			c.FireTimeout = DefaultFireTimeout
		}
	}
}

// DefaultFireTimeout is the time after which an engaged fire interlock clears itself
const DefaultFireTimeout = 15 * time.Minute
