package config

import (
	"errors"

	"github.com/joeshaw/envdecode"
)

// Env holds the settings read from the process environment. They only
// provide defaults for the global CLI flags.
type Env struct {
	// ConfigPath ENV: COMMITHELPER_CONFIG
	ConfigPath string `env:"COMMITHELPER_CONFIG"`
	// Language ENV: COMMITHELPER_LANG
	Language string `env:"COMMITHELPER_LANG,default=en"`
	// Debug ENV: COMMITHELPER_DEBUG
	Debug bool `env:"COMMITHELPER_DEBUG,default=false"`
}

func LoadEnv() (Env, error) {
	var env Env
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Env{Language: LangEN}, err
	}
	return env, nil
}
