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

package config

import "testing"

func TestDatabaseConfigValidate(t *testing.T) {
	cfg := &DatabaseConfig{Password: "secret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
	if cfg.Driver != "postgres" {
		t.Errorf("expected driver to default to postgres, got %q", cfg.Driver)
	}
	if cfg.Host != "127.0.0.1" || cfg.Port != 5432 || cfg.Username != "postgres" || cfg.Database != "userd" {
		t.Errorf("defaults not filled: %+v", cfg)
	}

	cfg = &DatabaseConfig{Driver: "postgres"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing postgres password")
	}

	cfg = &DatabaseConfig{Driver: "sqlite"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sqlite needs no password, got error: %v", err)
	}
	if cfg.Path != "userd.db" {
		t.Errorf("expected sqlite path default, got %q", cfg.Path)
	}

	cfg = &DatabaseConfig{Driver: "oracle"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestPaginationConfigValidate(t *testing.T) {
	cfg := &PaginationConfig{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing secret")
	}

	cfg = &PaginationConfig{Secret: "s3cret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
	if cfg.DefaultLimit != 10 || cfg.MaxLimit != 100 {
		t.Errorf("limit defaults not filled: %+v", cfg)
	}

	cfg = &PaginationConfig{Secret: "s3cret", DefaultLimit: 500, MaxLimit: 100}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when defaultLimit exceeds maxLimit")
	}
}

func TestRateLimitConfigValidate(t *testing.T) {
	cfg := &RateLimitConfig{Enabled: false, ReadLimit: -1}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled throttle should not validate budgets: %v", err)
	}
	if cfg.ReadLimit != -1 {
		t.Errorf("disabled throttle should stay untouched, got %+v", cfg)
	}

	cfg = &RateLimitConfig{Enabled: true}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
	if cfg.ReadLimit != 60 || cfg.ReadWindowSeconds != 60 || cfg.WriteLimit != 20 || cfg.WriteWindowSeconds != 60 {
		t.Errorf("throttle defaults not filled: %+v", cfg)
	}
}

func TestAppConfigValidate(t *testing.T) {
	cfg := &AppConfig{Port: 0}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid port")
	}

	cfg = &AppConfig{
		Port:       8080,
		DB:         &DatabaseConfig{Driver: "sqlite"},
		Pagination: &PaginationConfig{Secret: "s3cret"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
	if cfg.Mongo == nil || cfg.Redis == nil || cfg.Cache == nil || cfg.RateLimit == nil {
		t.Errorf("optional sections not materialized: %+v", cfg)
	}
	if cfg.Cache.TTLSeconds != 300 {
		t.Errorf("cache ttl default not filled, got %d", cfg.Cache.TTLSeconds)
	}
}
