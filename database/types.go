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
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/yaml.v3"
)

// AbstractDatabaseManager defines the operations for managing a MongoDB
// connection, ensuring indexes, and reporting health.
type AbstractDatabaseManager interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Reconnect(ctx context.Context) error
	Ping(ctx context.Context) error
	HealthCheck(ctx context.Context) *HealthStatus
	GetClient() *mongo.Client
	GetDatabase() *mongo.Database
	EnsureIndexes(ctx context.Context) error
	GetStats() *ClientStats
	SetLogger(logger Logger)
}

// AbstractDatabaseConfigProvider exposes configuration loading.
type AbstractDatabaseConfigProvider interface {
	ConfigLoader() *Config
}

// HealthStatus holds the result of a health check against the database.
type HealthStatus struct {
	Healthy       bool          `json:"healthy" yaml:"healthy"`
	Connected     bool          `json:"connected" yaml:"connected"`
	ResponseTime  time.Duration `json:"response_time" yaml:"response_time"`
	ActiveConns   int64         `json:"active_conns" yaml:"active_conns"`
	LastError     string        `json:"last_error,omitempty" yaml:"last_error,omitempty"`
	LastCheckTime time.Time     `json:"last_check_time" yaml:"last_check_time"`
}

// ClientStats mirrors connection pool activity observed through the
// driver's pool monitor.
type ClientStats struct {
	ConnectionsCreated int64 `json:"connections_created"`
	ConnectionsClosed  int64 `json:"connections_closed"`
	CheckedOut         int64 `json:"checked_out"`
	CheckedIn          int64 `json:"checked_in"`
	CheckoutFailed     int64 `json:"checkout_failed"`
	Active             int64 `json:"active"`
	InUse              int64 `json:"in_use"`
}

// ConnectionConfig describes how to connect to MongoDB and tune its pool.
// URI wins when set; otherwise the host/port/credential fields are used.
type ConnectionConfig struct {
	URI                    string        `json:"uri" yaml:"uri"`
	Host                   string        `json:"host" yaml:"host"`
	Port                   int           `json:"port" yaml:"port"`
	Username               string        `json:"username" yaml:"username"`
	Password               string        `json:"password" yaml:"password"`
	AuthSource             string        `json:"auth_source" yaml:"auth_source"`
	DBName                 string        `json:"dbname" yaml:"dbname"`
	ReplicaSet             string        `json:"replica_set" yaml:"replica_set"`
	AppName                string        `json:"app_name" yaml:"app_name"`
	MaxPoolSize            uint64        `json:"max_pool_size" yaml:"max_pool_size"`
	MinPoolSize            uint64        `json:"min_pool_size" yaml:"min_pool_size"`
	ConnMaxIdleTime        time.Duration `json:"conn_max_idle_time" yaml:"conn_max_idle_time"`
	ConnectTimeout         time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
	ServerSelectionTimeout time.Duration `json:"server_selection_timeout" yaml:"server_selection_timeout"`
	EnableReconnect        bool          `json:"enable_reconnect" yaml:"enable_reconnect"`
	ReconnectInterval      time.Duration `json:"reconnect_interval" yaml:"reconnect_interval"`
	MaxReconnectTries      int           `json:"max_reconnect_tries" yaml:"max_reconnect_tries"`
	HealthCheckInterval    time.Duration `json:"health_check_interval" yaml:"health_check_interval"`
	EnableCommandLog       bool          `json:"enable_command_log" yaml:"enable_command_log"`
	SlowCommandTime        time.Duration `json:"slow_command_time" yaml:"slow_command_time"`
}

// IndexConfig controls index creation behavior on startup.
type IndexConfig struct {
	EnsureOnStartup bool `json:"ensure_on_startup" yaml:"ensure_on_startup"`
}

// Config aggregates connection and index settings.
type Config struct {
	ConnectionConfig ConnectionConfig `json:"connection_config" yaml:"connection"`
	IndexConfig      IndexConfig      `json:"index_config" yaml:"indexes"`
}

// DefaultConnectionConfig returns a connection config with sensible
// defaults for a local server.
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Host:                   "127.0.0.1",
		Port:                   27017,
		MaxPoolSize:            100,
		MinPoolSize:            0,
		ConnMaxIdleTime:        time.Minute * 30,
		ConnectTimeout:         time.Second * 10,
		ServerSelectionTimeout: time.Second * 30,
		EnableReconnect:        true,
		ReconnectInterval:      time.Second * 5,
		MaxReconnectTries:      3,
		HealthCheckInterval:    time.Minute * 5,
		EnableCommandLog:       false,
		SlowCommandTime:        time.Second * 2,
	}
}

// LoadConfig reads a YAML configuration file into a Config, filling
// unset connection values with defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &Config{ConnectionConfig: *DefaultConnectionConfig()}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}
