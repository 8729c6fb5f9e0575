package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("FWPEEL_SEGMENT_TABLE_BASE")
	os.Unsetenv("FWPEEL_VERBOSE")
	os.Unsetenv("FWPEEL_NO_COLOR")

	c := Load()
	if c.SegmentTableBase != DefaultSegmentTableBase {
		t.Fatalf("SegmentTableBase = %s, want %s", c.SegmentTableBase, DefaultSegmentTableBase)
	}
	if c.Verbose || c.NoColor {
		t.Fatal("expected both toggles off by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	os.Setenv("FWPEEL_SEGMENT_TABLE_BASE", "4096")
	os.Setenv("FWPEEL_VERBOSE", "true")
	defer os.Unsetenv("FWPEEL_SEGMENT_TABLE_BASE")
	defer os.Unsetenv("FWPEEL_VERBOSE")

	c := Load()
	if c.SegmentTableBase != 4096 {
		t.Fatalf("SegmentTableBase = %s, want 0x1000", c.SegmentTableBase)
	}
	if !c.Verbose {
		t.Fatal("expected verbose override to take effect")
	}
}
