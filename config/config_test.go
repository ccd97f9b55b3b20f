package config

import "testing"

func TestValidateFillsZeroValues(t *testing.T) {
	var c Config
	c.Validate()
	if c.TableSizeLog2 != DefaultConfig.TableSizeLog2 {
		t.Fatalf("expected default TableSizeLog2, got %d", c.TableSizeLog2)
	}
	if c.BackoffBase != DefaultConfig.BackoffBase {
		t.Fatalf("expected default BackoffBase, got %v", c.BackoffBase)
	}
	if c.BackoffMax != DefaultConfig.BackoffMax {
		t.Fatalf("expected default BackoffMax, got %v", c.BackoffMax)
	}
}

func TestValidatePreservesExplicitValues(t *testing.T) {
	c := Config{TableSizeLog2: 4, MaxRetries: 7}
	c.Validate()
	if c.TableSizeLog2 != 4 {
		t.Fatalf("explicit TableSizeLog2 must survive Validate, got %d", c.TableSizeLog2)
	}
	if c.MaxRetries != 7 {
		t.Fatalf("MaxRetries must not be touched by Validate, got %d", c.MaxRetries)
	}
}
