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
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// poolStatsCollector tracks connection pool activity through the
// driver's event.PoolMonitor.
type poolStatsCollector struct {
	created        int64
	closed         int64
	checkedOut     int64
	checkedIn      int64
	checkoutFailed int64
}

func (c *poolStatsCollector) monitor() *event.PoolMonitor {
	return &event.PoolMonitor{
		Event: func(evt *event.PoolEvent) {
			switch evt.Type {
			case event.ConnectionCreated:
				atomic.AddInt64(&c.created, 1)
			case event.ConnectionClosed:
				atomic.AddInt64(&c.closed, 1)
			case event.GetSucceeded:
				atomic.AddInt64(&c.checkedOut, 1)
			case event.GetFailed:
				atomic.AddInt64(&c.checkoutFailed, 1)
			case event.ConnectionReturned:
				atomic.AddInt64(&c.checkedIn, 1)
			}
		},
	}
}

func (c *poolStatsCollector) stats() *ClientStats {
	created := atomic.LoadInt64(&c.created)
	closed := atomic.LoadInt64(&c.closed)
	out := atomic.LoadInt64(&c.checkedOut)
	in := atomic.LoadInt64(&c.checkedIn)
	return &ClientStats{
		ConnectionsCreated: created,
		ConnectionsClosed:  closed,
		CheckedOut:         out,
		CheckedIn:          in,
		CheckoutFailed:     atomic.LoadInt64(&c.checkoutFailed),
		Active:             created - closed,
		InUse:              out - in,
	}
}

// defaultDatabaseManager is the built-in AbstractDatabaseManager backed
// by a *mongo.Client.
type defaultDatabaseManager struct {
	config *ConnectionConfig

	mu        sync.RWMutex
	client    *mongo.Client
	database  *mongo.Database
	connected bool
	lastError error

	pool   *poolStatsCollector
	logger Logger

	stopHealthCheck    chan struct{}
	healthCheckRunning bool
}

// NewDatabaseManager creates a manager for the given connection config.
// Nil config falls back to defaults.
func NewDatabaseManager(config *ConnectionConfig) AbstractDatabaseManager {
	if config == nil {
		config = DefaultConnectionConfig()
	}
	return &defaultDatabaseManager{
		config: config,
		pool:   &poolStatsCollector{},
		logger: GetLogger(),
	}
}

// SetLogger replaces the manager's logger.
func (m *defaultDatabaseManager) SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// connectionURI builds the mongodb:// URI from the config when an
// explicit URI is not provided.
func (m *defaultDatabaseManager) connectionURI() string {
	if m.config.URI != "" {
		return m.config.URI
	}
	host := m.config.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := m.config.Port
	if port == 0 {
		port = 27017
	}
	var credentials string
	if m.config.Username != "" {
		credentials = url.QueryEscape(m.config.Username)
		if m.config.Password != "" {
			credentials += ":" + url.QueryEscape(m.config.Password)
		}
		credentials += "@"
	}
	uri := fmt.Sprintf("mongodb://%s%s:%d", credentials, host, port)
	query := url.Values{}
	if m.config.AuthSource != "" {
		query.Set("authSource", m.config.AuthSource)
	}
	if m.config.ReplicaSet != "" {
		query.Set("replicaSet", m.config.ReplicaSet)
	}
	if len(query) > 0 {
		uri += "/?" + query.Encode()
	}
	return uri
}

func (m *defaultDatabaseManager) clientOptions() *options.ClientOptions {
	opts := options.Client().
		ApplyURI(m.connectionURI()).
		SetMaxPoolSize(m.config.MaxPoolSize).
		SetMinPoolSize(m.config.MinPoolSize).
		SetMaxConnIdleTime(m.config.ConnMaxIdleTime).
		SetConnectTimeout(m.config.ConnectTimeout).
		SetServerSelectionTimeout(m.config.ServerSelectionTimeout).
		SetPoolMonitor(m.pool.monitor())
	if m.config.AppName != "" {
		opts.SetAppName(m.config.AppName)
	}
	if m.config.EnableCommandLog {
		hook := NewCommandLogHook(m.logger, m.config.SlowCommandTime)
		opts.SetMonitor(hook.CommandMonitor())
	}
	return opts
}

// Connect establishes the client connection and verifies it with a ping.
func (m *defaultDatabaseManager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connected {
		return nil
	}
	client, err := mongo.Connect(ctx, m.clientOptions())
	if err != nil {
		m.lastError = err
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, m.config.ServerSelectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		m.lastError = err
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}
	m.client = client
	m.database = client.Database(m.databaseName())
	m.connected = true
	m.lastError = nil
	m.logger.Info("Connected to MongoDB at %s, database: %s", m.connectionTarget(), m.databaseName())

	m.startHealthCheckLocked()
	return nil
}

// connectionTarget returns a loggable address with credentials removed.
func (m *defaultDatabaseManager) connectionTarget() string {
	u, err := url.Parse(m.connectionURI())
	if err != nil {
		return fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	}
	u.User = nil
	return u.String()
}

// startHealthCheckLocked spawns the health check loop when configured
// and not already running. Callers must hold m.mu.
func (m *defaultDatabaseManager) startHealthCheckLocked() {
	if m.config.HealthCheckInterval <= 0 || m.healthCheckRunning {
		return
	}
	m.stopHealthCheck = make(chan struct{})
	m.healthCheckRunning = true
	go m.healthCheckLoop(m.stopHealthCheck)
}

// stopHealthCheckLocked stops the loop so a later Connect can start a
// fresh one. Callers must hold m.mu.
func (m *defaultDatabaseManager) stopHealthCheckLocked() {
	if !m.healthCheckRunning {
		return
	}
	close(m.stopHealthCheck)
	m.healthCheckRunning = false
}

func (m *defaultDatabaseManager) databaseName() string {
	if m.config.DBName != "" {
		return m.config.DBName
	}
	return "test"
}

// Disconnect closes the client and stops the health check loop.
func (m *defaultDatabaseManager) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected || m.client == nil {
		return nil
	}
	m.stopHealthCheckLocked()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err := m.client.Disconnect(ctx)
	m.client = nil
	m.database = nil
	m.connected = false
	if err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	m.logger.Info("Disconnected from MongoDB")
	return nil
}

// Reconnect tears down the current client and connects again, retrying
// up to MaxReconnectTries times.
func (m *defaultDatabaseManager) Reconnect(ctx context.Context) error {
	m.mu.Lock()
	if m.client != nil {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		_ = m.client.Disconnect(disconnectCtx)
		cancel()
		m.client = nil
		m.database = nil
	}
	m.connected = false
	m.mu.Unlock()

	tries := m.config.MaxReconnectTries
	if tries <= 0 {
		tries = 1
	}
	var lastErr error
	for i := 0; i < tries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(m.config.ReconnectInterval):
			}
		}
		if err := m.Connect(ctx); err != nil {
			lastErr = err
			m.logger.Warn("Reconnect attempt %d/%d failed: %v", i+1, tries, err)
			continue
		}
		m.logger.Info("Reconnected to MongoDB on attempt %d", i+1)
		return nil
	}
	return fmt.Errorf("failed to reconnect after %d attempts: %w", tries, lastErr)
}

// Ping checks connectivity against the primary.
func (m *defaultDatabaseManager) Ping(ctx context.Context) error {
	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()
	if client == nil {
		return fmt.Errorf("database not connected")
	}
	return client.Ping(ctx, readpref.Primary())
}

// HealthCheck pings the server and reports status plus pool activity.
func (m *defaultDatabaseManager) HealthCheck(ctx context.Context) *HealthStatus {
	status := &HealthStatus{LastCheckTime: time.Now()}
	m.mu.RLock()
	status.Connected = m.connected
	if m.lastError != nil {
		status.LastError = m.lastError.Error()
	}
	m.mu.RUnlock()

	start := time.Now()
	err := m.Ping(ctx)
	status.ResponseTime = time.Since(start)
	if err != nil {
		status.Healthy = false
		status.LastError = err.Error()
		m.mu.Lock()
		m.lastError = err
		m.mu.Unlock()
		return status
	}
	status.Healthy = true
	status.ActiveConns = m.pool.stats().Active
	return status
}

func (m *defaultDatabaseManager) healthCheckLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(m.config.HealthCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
			status := m.HealthCheck(ctx)
			cancel()
			if status.Healthy {
				m.logger.Debug("Health check passed in %s", status.ResponseTime)
				continue
			}
			m.logger.Warn("Health check failed: %s", status.LastError)
			if m.config.EnableReconnect {
				reconnectCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
				if err := m.Reconnect(reconnectCtx); err != nil {
					m.logger.Error("Automatic reconnect failed: %v", err)
				}
				cancel()
			}
		}
	}
}

// GetClient returns the underlying client, nil before Connect.
func (m *defaultDatabaseManager) GetClient() *mongo.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// GetDatabase returns the configured database handle, nil before Connect.
func (m *defaultDatabaseManager) GetDatabase() *mongo.Database {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.database
}

// EnsureIndexes creates indexes for every registered collection model.
func (m *defaultDatabaseManager) EnsureIndexes(ctx context.Context) error {
	db := m.GetDatabase()
	if db == nil {
		return fmt.Errorf("database not connected")
	}
	return NewIndexManager(db, m.logger).EnsureIndexes(ctx)
}

// GetStats returns a snapshot of pool activity counters.
func (m *defaultDatabaseManager) GetStats() *ClientStats {
	return m.pool.stats()
}
