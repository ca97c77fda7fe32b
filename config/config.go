package config

import (
	"moneymarket/core"

	"github.com/asaskevich/govalidator"
	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("MONEYMARKET")
	if err := configUtil.LoadYaml(configFile, config); err != nil {
		return err
	}

	defaultConfig(config)

	if _, err := govalidator.ValidateStruct(config); err != nil {
		return err
	}

	return nil
}
