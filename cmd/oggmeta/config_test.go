package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v3"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if cfg.Jobs != nil || cfg.LogLevel != "" {
		t.Errorf("missing file should give a zero Config, got %+v", cfg)
	}

	path := filepath.Join(dir, "config.yaml")
	data := "log_level: debug\nlog_format: json\nbackup_suffix: .bak\nvalidate: false\njobs: 3\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" || cfg.BackupSuffix != ".bak" {
		t.Errorf("strings = %+v", cfg)
	}
	if cfg.Validate == nil || *cfg.Validate {
		t.Errorf("Validate = %v, want explicit false", cfg.Validate)
	}
	if cfg.Jobs == nil || *cfg.Jobs != 3 {
		t.Errorf("Jobs = %v, want 3", cfg.Jobs)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("validate: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplySetConfig(t *testing.T) {
	yes := true
	cfg := Config{BackupSuffix: ".orig", Validate: &yes}

	tests := []struct {
		name         string
		args         []string
		wantBackup   string
		wantValidate bool
	}{
		{"config only", nil, ".orig", true},
		{"flag wins", []string{"--backup", ".bak", "--validate=false"}, ".bak", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var (
				backup   string
				validate bool
			)
			cmd := &cli.Command{
				Name: "set",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "backup", Destination: &backup},
					&cli.BoolFlag{Name: "validate", Destination: &validate},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					applySetConfig(c, cfg, &backup, &validate)
					return nil
				},
			}
			if err := cmd.Run(context.Background(), append([]string{"set"}, tc.args...)); err != nil {
				t.Fatal(err)
			}
			if backup != tc.wantBackup || validate != tc.wantValidate {
				t.Errorf("backup/validate = %q/%v, want %q/%v", backup, validate, tc.wantBackup, tc.wantValidate)
			}
		})
	}
}

func TestConfigFromContext(t *testing.T) {
	if cfg := configFrom(context.Background()); cfg.Jobs != nil {
		t.Errorf("empty context should give a zero Config, got %+v", cfg)
	}

	jobs := 2
	ctx := withConfig(context.Background(), Config{Jobs: &jobs})
	if cfg := configFrom(ctx); cfg.Jobs == nil || *cfg.Jobs != 2 {
		t.Errorf("Jobs = %v, want 2", cfg.Jobs)
	}
}
