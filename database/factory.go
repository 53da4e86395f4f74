/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"os"
	"strconv"
)

// BaseDatabaseFactory builds a manager from configuration, applying
// environment overrides so deployments can adjust connection settings
// without editing config files.
type BaseDatabaseFactory struct {
	config *Config
}

// NewDatabaseFactory creates a factory from a config. Nil config uses
// defaults.
func NewDatabaseFactory(config *Config) *BaseDatabaseFactory {
	if config == nil {
		config = &Config{ConnectionConfig: *DefaultConnectionConfig()}
	}
	return &BaseDatabaseFactory{config: config}
}

// NewDatabaseFactoryFromFile loads a YAML config file and creates a
// factory for it.
func NewDatabaseFactoryFromFile(path string) (*BaseDatabaseFactory, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return NewDatabaseFactory(cfg), nil
}

// ConfigLoader returns the factory config with environment overrides
// applied.
func (f *BaseDatabaseFactory) ConfigLoader() *Config {
	cfg := *f.config
	overrideFromEnv(&cfg.ConnectionConfig)
	return &cfg
}

// CreateManager builds the database manager for the resolved config.
func (f *BaseDatabaseFactory) CreateManager() AbstractDatabaseManager {
	cfg := f.ConfigLoader()
	return NewDatabaseManager(&cfg.ConnectionConfig)
}

// InitializeDatabase resolves configuration, connects, and optionally
// ensures registered indexes.
func (f *BaseDatabaseFactory) InitializeDatabase(ctx context.Context) (AbstractDatabaseManager, error) {
	cfg := f.ConfigLoader()
	manager := NewDatabaseManager(&cfg.ConnectionConfig)
	if err := manager.Connect(ctx); err != nil {
		return nil, err
	}
	if cfg.IndexConfig.EnsureOnStartup {
		if err := manager.EnsureIndexes(ctx); err != nil {
			_ = manager.Disconnect()
			return nil, err
		}
	}
	return manager, nil
}

func overrideFromEnv(cfg *ConnectionConfig) {
	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.URI = v
	}
	if v := os.Getenv("MONGO_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("MONGO_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("MONGO_USERNAME"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("MONGO_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("MONGO_AUTH_SOURCE"); v != "" {
		cfg.AuthSource = v
	}
	if v := os.Getenv("MONGO_DATABASE"); v != "" {
		cfg.DBName = v
	}
	if v := os.Getenv("MONGO_REPLICA_SET"); v != "" {
		cfg.ReplicaSet = v
	}
	if v := os.Getenv("MONGO_MAX_POOL_SIZE"); v != "" {
		if size, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.MaxPoolSize = size
		}
	}
	if v := os.Getenv("MONGO_COMMAND_LOG"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.EnableCommandLog = enabled
		}
	}
}
