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
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	globalMu      sync.RWMutex
	globalManager AbstractDatabaseManager
	globalFactory *BaseDatabaseFactory
)

// InitDB connects the package level database using the given factory.
// A nil factory uses defaults plus environment overrides. Safe to call
// once at startup; later calls replace the global manager.
func InitDB(ctx context.Context, factory *BaseDatabaseFactory) error {
	if factory == nil {
		factory = NewDatabaseFactory(nil)
	}
	manager, err := factory.InitializeDatabase(ctx)
	if err != nil {
		return err
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalManager != nil {
		_ = globalManager.Disconnect()
	}
	globalManager = manager
	globalFactory = factory
	return nil
}

// GetDB returns the package level database handle, nil before InitDB.
func GetDB() *mongo.Database {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalManager == nil {
		return nil
	}
	return globalManager.GetDatabase()
}

// GetClient returns the package level client, nil before InitDB.
func GetClient() *mongo.Client {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalManager == nil {
		return nil
	}
	return globalManager.GetClient()
}

// GetDatabaseManager returns the package level manager, nil before InitDB.
func GetDatabaseManager() AbstractDatabaseManager {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalManager
}

// GetDatabaseFactory returns the factory used by InitDB.
func GetDatabaseFactory() *BaseDatabaseFactory {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalFactory
}

// CloseDB disconnects and clears the package level manager.
func CloseDB() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalManager == nil {
		return nil
	}
	err := globalManager.Disconnect()
	globalManager = nil
	return err
}

// GetHealthStatus runs a health check against the global database.
func GetHealthStatus(ctx context.Context) *HealthStatus {
	manager := GetDatabaseManager()
	if manager == nil {
		return &HealthStatus{Healthy: false, LastError: "database not initialized"}
	}
	return manager.HealthCheck(ctx)
}

// GetDatabaseStats returns pool counters for the global database.
func GetDatabaseStats() *ClientStats {
	manager := GetDatabaseManager()
	if manager == nil {
		return &ClientStats{}
	}
	return manager.GetStats()
}

// EnsureIndexes creates registered indexes on the global database.
func EnsureIndexes(ctx context.Context) error {
	manager := GetDatabaseManager()
	if manager == nil {
		return ErrNotInitialized
	}
	return manager.EnsureIndexes(ctx)
}
