package main

import (
	"testing"

	"github.com/sitelens/sitelens/internal/config"
)

// TestNewServeCmd tests the serve command creation.
func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "serve" {
			t.Errorf("expected use 'serve', got %q", cmd.Use)
		}
	})

	t.Run("has addr flag with default", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("addr")
		if flag == nil {
			t.Fatal("expected addr flag")
		}
		if flag.Shorthand != "a" {
			t.Errorf("expected shorthand 'a', got %q", flag.Shorthand)
		}
		if flag.DefValue != config.DefaultListenAddr {
			t.Errorf("expected default %q, got %q", config.DefaultListenAddr, flag.DefValue)
		}
	})

	t.Run("has api-key flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("api-key") == nil {
			t.Error("expected api-key flag")
		}
	})

	t.Run("has no-fallback flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("no-fallback") == nil {
			t.Error("expected no-fallback flag")
		}
	})
}

// TestBuildServeConfig tests serve flag to config mapping.
func TestBuildServeConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewServeCmd()
		cfg, err := buildServeConfig(cmd)
		if err != nil {
			t.Fatalf("buildServeConfig() error = %v", err)
		}
		if cfg.ListenAddr != config.DefaultListenAddr {
			t.Errorf("ListenAddr = %q", cfg.ListenAddr)
		}
		if err := cfg.ValidateServe(); err != nil {
			t.Errorf("ValidateServe() error = %v", err)
		}
	})

	t.Run("custom addr", func(t *testing.T) {
		t.Parallel()

		cmd := NewServeCmd()
		if err := cmd.Flags().Set("addr", "127.0.0.1:9090"); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildServeConfig(cmd)
		if err != nil {
			t.Fatalf("buildServeConfig() error = %v", err)
		}
		if cfg.ListenAddr != "127.0.0.1:9090" {
			t.Errorf("ListenAddr = %q", cfg.ListenAddr)
		}
	})
}
