package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultUniverse_CIKsAndTickers(t *testing.T) {
	u := DefaultUniverse()

	ciks := u.CIKs()
	if !ciks["0001045810"] {
		t.Error("Expected NVDA CIK in tracked set")
	}
	if got := u.TickerFor("0000813672"); got != "CDNS" {
		t.Errorf("Expected CDNS, got %s", got)
	}
	if got := u.TickerFor("0009999999"); got != "UNKNOWN" {
		t.Errorf("Expected UNKNOWN for untracked CIK, got %s", got)
	}
}

func TestLoadUniverse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.yaml")
	content := `
NVDA:
  name: NVIDIA Corp
  cik: "0001045810"
TSM:
  name: Taiwan Semiconductor Manufacturing Co Ltd
  cik: "0001046179"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	u, err := LoadUniverse(path)
	if err != nil {
		t.Fatalf("LoadUniverse failed: %v", err)
	}
	if len(u) != 2 {
		t.Fatalf("Expected 2 companies, got %d", len(u))
	}
	if u["NVDA"].CIK != "0001045810" {
		t.Errorf("Expected NVDA CIK 0001045810, got %s", u["NVDA"].CIK)
	}
}

func TestLoadUniverse_RejectsBadEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.yaml")
	content := `
NVDA:
  name: NVIDIA Corp
  cik: "1045810"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadUniverse(path); err == nil {
		t.Error("Expected error for unpadded CIK, got nil")
	}

	if _, err := LoadUniverse(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}
