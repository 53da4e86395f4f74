// Package database provides MongoDB connection management, health checks,
// reconnection, command monitoring, index management, configuration
// types, logging, and related utilities built on the official driver.
package database
