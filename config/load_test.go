package config

import (
	"testing"

	"moneymarket/core"

	"github.com/asaskevich/govalidator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	var cfg core.Config
	defaultConfig(&cfg)

	assert.Equal(t, "memory", cfg.App.Store)
	assert.EqualValues(t, 15, cfg.App.SecondsPerBlock)
	assert.Equal(t, "2", cfg.Params.CollateralRatio)
	assert.Equal(t, "static", cfg.Params.Oracle)
	assert.Equal(t, "moneymarket", cfg.Token.Holder)
	assert.Equal(t, 64, cfg.Executor.Capacity)
	assert.Equal(t, "@every 30s", cfg.Monitor.Spec)

	_, err := govalidator.ValidateStruct(&cfg)
	require.NoError(t, err)
}

func TestValidation(t *testing.T) {
	cfg := core.Config{
		App: core.App{Store: "redis"},
	}
	defaultConfig(&cfg)

	_, err := govalidator.ValidateStruct(&cfg)
	assert.Error(t, err)

	cfg.App.Store = "db"
	cfg.Params.CollateralRatio = "two"
	_, err = govalidator.ValidateStruct(&cfg)
	assert.Error(t, err)
}
