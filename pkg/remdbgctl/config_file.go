package remdbgctl

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	yaml "gopkg.in/yaml.v2"

	rdOpts "github.com/solo-io/remdbg/pkg/options"
)

// readConfigValues loads the per-user config file into the options tree
// and applies the log level. Flags given on the command line still win
// because they are bound after this runs.
func (o *Options) readConfigValues() error {
	if err := o.prepareViperConfig(); err != nil {
		return err
	}

	o.Internal.ConfigRead = Config{
		Verbose:  viper.GetBool("verbose"),
		LogLevel: viper.GetString("log_level"),
	}
	o.Verbose = o.Internal.ConfigRead.Verbose

	if o.Internal.ConfigRead.LogLevel != "" {
		level, err := log.ParseLevel(o.Internal.ConfigRead.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log_level %q in config file", o.Internal.ConfigRead.LogLevel)
		}
		log.SetLevel(level)
	}
	return nil
}

// This needs to be called before viper can read any config values
func (o *Options) prepareViperConfig() error {
	if o.Internal.ConfigLoaded {
		// only load the config once
		return nil
	}

	configDir, err := configDir()
	if err != nil {
		return err
	}
	configFile := filepath.Join(configDir, rdOpts.ConfigFileName)
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := writeDefaultConfigFile(configFile); err != nil {
			return err
		}
	}

	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("could not read config file %v: %v", configFile, err)
	}
	o.Internal.ConfigLoaded = true
	return nil
}

func writeDefaultConfigFile(fp string) error {
	fmt.Printf("remdbg config file not found. Writing default config to %v.\n", fp)
	out, err := yaml.Marshal(Config{
		Verbose:  false,
		LogLevel: "warning",
	})
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fp, out, 0644)
}

func configDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, rdOpts.ConfigDirName)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.Mkdir(dir, 0755); err != nil {
			return "", err
		}
	}
	return dir, nil
}
