// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import "time"

// Config is the on-disk configuration, loaded from YAML.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Keyring KeyringConfig `yaml:"keyring"`
	HTTP    HTTPConfig    `yaml:"http"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
}

// AppConfig describes the OAuth application registered on each instance.
type AppConfig struct {
	ClientName  string   `yaml:"client_name"`
	Website     string   `yaml:"website"`
	Scopes      []string `yaml:"scopes"`
	RedirectURI string   `yaml:"redirect_uri"`
}

type KeyringConfig struct {
	Service string `yaml:"service"`
}

type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	PageLimit  int           `yaml:"page_limit"`
}

type OutputConfig struct {
	Mode   string `yaml:"mode"`
	Header bool   `yaml:"header"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// OutOfBandRedirect is the redirect URI that makes the instance display the
// authorization code instead of redirecting.
const OutOfBandRedirect = "urn:ietf:wg:oauth:2.0:oob"

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			ClientName:  "mafolex",
			Website:     "https://github.com/sirseerhq/mafolex",
			Scopes:      []string{"read:accounts", "read:follows"},
			RedirectURI: OutOfBandRedirect,
		},
		Keyring: KeyringConfig{
			Service: "mafolex",
		},
		HTTP: HTTPConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			PageLimit:  80,
		},
		Output: OutputConfig{
			Mode:   "auto",
			Header: true,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}
