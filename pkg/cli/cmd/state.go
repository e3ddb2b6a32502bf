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

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/kiteran/userd/pkg/utils"
	yaml "go.yaml.in/yaml/v3"
)

// cursorState remembers where the last list command stopped so a later
// invocation can pick up with --continue. The file lock keeps two
// concurrent invocations from interleaving reads and writes.
type cursorState struct {
	Cursor  string    `yaml:"cursor"`
	SavedAt time.Time `yaml:"savedAt"`
}

func statePath() string {
	return filepath.Join(cliConfigDir(), "state.yaml")
}

// loadCursorState returns nil when no state has been saved yet.
func loadCursorState() (*cursorState, error) {
	path := statePath()

	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock state file: %w", err)
	}
	defer lock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	state := &cursorState{}
	if err := yaml.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	return state, nil
}

func saveCursorState(state *cursorState) error {
	if err := utils.EnsureDir(cliConfigDir()); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	path := statePath()

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock state file: %w", err)
	}
	defer lock.Unlock()

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func clearCursorState() error {
	path := statePath()

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock state file: %w", err)
	}
	defer lock.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
