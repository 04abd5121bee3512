// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestBar(t *testing.T) {
	var out bytes.Buffer
	b := NewBar(&out, "BRAF")

	b.Tick(1, 2)
	if !strings.Contains(out.String(), "BRAF |") {
		t.Errorf("missing prefix: %q", out.String())
	}
	if !strings.Contains(out.String(), "50.0% (1/2)") {
		t.Errorf("missing percentage: %q", out.String())
	}
	if strings.Count(out.String(), "M") != 25 {
		t.Errorf("want half the bar filled, got %q", out.String())
	}

	b.Tick(2, 2)
	if !strings.HasSuffix(out.String(), "\n") {
		t.Error("completed bar must end the line")
	}
}

func TestBar_ZeroTotal(t *testing.T) {
	var out bytes.Buffer
	NewBar(&out, "x").Tick(0, 0)
	if out.Len() != 0 {
		t.Errorf("zero total must render nothing, got %q", out.String())
	}
}

func TestBar_OverflowClamps(t *testing.T) {
	var out bytes.Buffer
	NewBar(&out, "x").Tick(5, 2)
	if !strings.Contains(out.String(), "100.0% (2/2)") {
		t.Errorf("overflow must clamp to total: %q", out.String())
	}
}
