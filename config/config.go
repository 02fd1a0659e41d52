// Copyright 2020 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"

	"github.com/juju/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	MajorUsers = "users"
	MajorItems = "items"
)

// Config is the configuration for splitting and loading rating data.
type Config struct {
	Split    SplitConfig     `mapstructure:"split"`
	Provider ProviderConfig  `mapstructure:"provider"`
	S3       S3Config        `mapstructure:"s3"`
	GCS      GCSConfig       `mapstructure:"gcs"`
	Azure    AzureBlobConfig `mapstructure:"azure"`
}

// SplitConfig controls how raw ratings are split into train, validation and test sets.
type SplitConfig struct {
	Delimiter  string  `mapstructure:"delimiter" validate:"required"`
	Header     int     `mapstructure:"header" validate:"gte=0"`
	TrainRatio float64 `mapstructure:"train_ratio" validate:"gt=0,lt=1"`
	ValidProb  float64 `mapstructure:"valid_prob" validate:"gte=0,lte=1"`
	MinRatings int     `mapstructure:"min_ratings" validate:"gte=1"`
	Seed       int64   `mapstructure:"seed"`
	SaveMaps   bool    `mapstructure:"save_maps"`
}

// ProviderConfig controls how rating files are loaded into mini-batches.
type ProviderConfig struct {
	DataDir   string `mapstructure:"data_dir"`
	Extension string `mapstructure:"extension"`
	ItemIdInd int    `mapstructure:"item_id_ind" validate:"gte=0"`
	UserIdInd int    `mapstructure:"user_id_ind" validate:"gte=0"`
	RatingInd int    `mapstructure:"rating_ind" validate:"gte=0"`
	Major     string `mapstructure:"major" validate:"oneof=users items"`
	Header    int    `mapstructure:"header" validate:"gte=0"`
	Delimiter string `mapstructure:"delimiter" validate:"required"`
	BatchSize int    `mapstructure:"batch_size" validate:"gte=0"`
	UserMap   string `mapstructure:"user_map"`
	ItemMap   string `mapstructure:"item_map"`
	Seed      int64  `mapstructure:"seed"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

type GCSConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
}

type AzureBlobConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
	AccountName      string `mapstructure:"account_name"`
	AccountKey       string `mapstructure:"account_key"`
	Endpoint         string `mapstructure:"endpoint"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Split: SplitConfig{
			Delimiter:  ",",
			Header:     0,
			TrainRatio: 0.7,
			ValidProb:  0.5,
			MinRatings: 2,
		},
		Provider: ProviderConfig{
			Extension: ".txt",
			ItemIdInd: 0,
			UserIdInd: 1,
			RatingInd: 2,
			Major:     MajorItems,
			Header:    0,
			Delimiter: "\t",
		},
		S3: S3Config{
			UseSSL: true,
		},
	}
}

func setDefault(v *viper.Viper) {
	defaultConfig := GetDefaultConfig()
	// [split]
	v.SetDefault("split.delimiter", defaultConfig.Split.Delimiter)
	v.SetDefault("split.header", defaultConfig.Split.Header)
	v.SetDefault("split.train_ratio", defaultConfig.Split.TrainRatio)
	v.SetDefault("split.valid_prob", defaultConfig.Split.ValidProb)
	v.SetDefault("split.min_ratings", defaultConfig.Split.MinRatings)
	v.SetDefault("split.seed", defaultConfig.Split.Seed)
	v.SetDefault("split.save_maps", defaultConfig.Split.SaveMaps)
	// [provider]
	v.SetDefault("provider.data_dir", defaultConfig.Provider.DataDir)
	v.SetDefault("provider.extension", defaultConfig.Provider.Extension)
	v.SetDefault("provider.item_id_ind", defaultConfig.Provider.ItemIdInd)
	v.SetDefault("provider.user_id_ind", defaultConfig.Provider.UserIdInd)
	v.SetDefault("provider.rating_ind", defaultConfig.Provider.RatingInd)
	v.SetDefault("provider.major", defaultConfig.Provider.Major)
	v.SetDefault("provider.header", defaultConfig.Provider.Header)
	v.SetDefault("provider.delimiter", defaultConfig.Provider.Delimiter)
	v.SetDefault("provider.batch_size", defaultConfig.Provider.BatchSize)
	v.SetDefault("provider.user_map", defaultConfig.Provider.UserMap)
	v.SetDefault("provider.item_map", defaultConfig.Provider.ItemMap)
	v.SetDefault("provider.seed", defaultConfig.Provider.Seed)
	// [s3]
	v.SetDefault("s3.use_ssl", defaultConfig.S3.UseSSL)
}

type configBinding struct {
	key string
	env string
}

var envBindings = []configBinding{
	{"s3.endpoint", "RECDATA_S3_ENDPOINT"},
	{"s3.access_key_id", "RECDATA_S3_ACCESS_KEY_ID"},
	{"s3.secret_access_key", "RECDATA_S3_SECRET_ACCESS_KEY"},
	{"gcs.credentials_file", "RECDATA_GCS_CREDENTIALS_FILE"},
	{"azure.connection_string", "RECDATA_AZURE_CONNECTION_STRING"},
	{"azure.account_name", "RECDATA_AZURE_ACCOUNT_NAME"},
	{"azure.account_key", "RECDATA_AZURE_ACCOUNT_KEY"},
	{"azure.endpoint", "RECDATA_AZURE_ENDPOINT"},
}

// FlagBinding overrides a config key with a command line flag once the flag is set.
type FlagBinding struct {
	Key  string
	Flag *pflag.Flag
}

// LoadConfig loads configuration from a toml/yaml file. An empty path loads defaults only.
// Precedence: flags > environment variables > config file > defaults.
func LoadConfig(path string, flags ...FlagBinding) (*Config, error) {
	v := viper.New()
	setDefault(v)

	// bind environment bindings
	for _, binding := range envBindings {
		if err := v.BindEnv(binding.key, binding.env); err != nil {
			return nil, errors.Trace(err)
		}
	}

	// bind command line flags
	for _, binding := range flags {
		if binding.Flag == nil {
			continue
		}
		if err := v.BindPFlag(binding.Key, binding.Flag); err != nil {
			return nil, errors.Trace(err)
		}
	}

	if path != "" {
		// check if file exist
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Trace(err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}
