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
	"time"

	"github.com/fatih/color"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
)

// CommandLogHook logs driver commands through an event.CommandMonitor.
// Slow commands beyond the threshold are logged as warnings, failures
// as errors. Silent mode suppresses successful command logging.
type CommandLogHook struct {
	logger    Logger
	slowAfter time.Duration

	mu      sync.Mutex
	started map[int64]startedCommand
	silent  bool
}

type startedCommand struct {
	name    string
	command string
}

// NewCommandLogHook creates a hook logging to the given logger. A zero
// slowAfter disables slow command warnings.
func NewCommandLogHook(logger Logger, slowAfter time.Duration) *CommandLogHook {
	if logger == nil {
		logger = GetLogger()
	}
	return &CommandLogHook{
		logger:    logger,
		slowAfter: slowAfter,
		started:   make(map[int64]startedCommand),
	}
}

// SetSilent toggles logging of successful commands.
func (h *CommandLogHook) SetSilent(silent bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.silent = silent
}

// CommandMonitor adapts the hook to the driver's monitor interface.
func (h *CommandLogHook) CommandMonitor() *event.CommandMonitor {
	return &event.CommandMonitor{
		Started:   h.commandStarted,
		Succeeded: h.commandSucceeded,
		Failed:    h.commandFailed,
	}
}

func (h *CommandLogHook) commandStarted(_ context.Context, evt *event.CommandStartedEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started[evt.RequestID] = startedCommand{
		name:    evt.CommandName,
		command: formatCommand(evt.Command),
	}
}

func (h *CommandLogHook) commandSucceeded(_ context.Context, evt *event.CommandSucceededEvent) {
	cmd, ok := h.take(evt.RequestID)
	if !ok {
		return
	}
	elapsed := evt.Duration
	if h.slowAfter > 0 && elapsed >= h.slowAfter {
		h.logger.Warn("[%s] SLOW COMMAND %s %s [%s]",
			evt.DatabaseName, evt.CommandName, cmd.command, elapsed)
		return
	}
	h.mu.Lock()
	silent := h.silent
	h.mu.Unlock()
	if silent {
		return
	}
	h.logger.Debug("[%s] %s %s [%s]", evt.DatabaseName, evt.CommandName, cmd.command, elapsed)
}

func (h *CommandLogHook) commandFailed(_ context.Context, evt *event.CommandFailedEvent) {
	cmd, _ := h.take(evt.RequestID)
	h.logger.Error("[%s] %s %s %s",
		evt.DatabaseName,
		evt.CommandName,
		color.RedString(evt.Failure),
		cmd.command)
}

func (h *CommandLogHook) take(requestID int64) (startedCommand, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cmd, ok := h.started[requestID]
	if ok {
		delete(h.started, requestID)
	}
	return cmd, ok
}

const maxLoggedCommandLength = 1024

// formatCommand renders a command document as compact extended JSON,
// truncated to keep log lines readable.
func formatCommand(command bson.Raw) string {
	s := command.String()
	if len(s) > maxLoggedCommandLength {
		return s[:maxLoggedCommandLength] + "..."
	}
	return s
}
