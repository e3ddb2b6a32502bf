/*
Copyright © 2026 kiteran <kiteran@proton.me>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	baseCtx  context.Context
	cancelFn context.CancelFunc
	baseOnce sync.Once
)

// SetupContext returns a context cancelled on SIGINT or SIGTERM. The
// context is created once; later callers share it.
func SetupContext() (context.Context, context.CancelFunc) {
	baseOnce.Do(func() {
		baseCtx, cancelFn = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	})
	return baseCtx, cancelFn
}

// GetBaseContext returns the signal-aware context, or Background when
// SetupContext has not been called yet.
func GetBaseContext() context.Context {
	if baseCtx == nil {
		return context.Background()
	}
	return baseCtx
}
