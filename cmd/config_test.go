package cmd

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestTableConfig(t *testing.T) {
	defer viper.Reset()
	viper.Set("philosophers", 7)
	viper.Set("think-min", "10ms")
	viper.Set("think-max", 20*time.Millisecond)
	viper.Set("eat-min", "5ms")
	viper.Set("eat-max", "5ms")
	viper.Set("backoff", "1ms")
	viper.Set("seed", 3)

	cfg := tableConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Philosophers != 7 || cfg.Seed != 3 {
		t.Errorf("config: failed (got=%+v)", cfg)
	}
	if cfg.Think.Min != 10*time.Millisecond || cfg.Think.Max != 20*time.Millisecond {
		t.Errorf("think: failed (got=%v)", cfg.Think)
	}
	if cfg.Eat.Min != cfg.Eat.Max || cfg.Backoff != time.Millisecond {
		t.Errorf("eat/backoff: failed (got=%v, %v)", cfg.Eat, cfg.Backoff)
	}
}

func TestTableFlagDefaults(t *testing.T) {
	f := RootCmd.PersistentFlags().Lookup("philosophers")
	if f == nil || f.DefValue != "5" {
		t.Fatalf("philosophers flag: failed (got=%v)", f)
	}
	if f := RootCmd.PersistentFlags().Lookup("backoff"); f == nil || f.DefValue != "100ms" {
		t.Errorf("backoff flag: failed (got=%v)", f)
	}
}
