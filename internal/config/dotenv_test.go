package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDotEnvLine(t *testing.T) {
	cases := []struct {
		raw   string
		key   string
		value string
		ok    bool
	}{
		{"DB_PATH=./dev.db", "DB_PATH", "./dev.db", true},
		{"export RATES_API_URL=http://localhost:9000", "RATES_API_URL", "http://localhost:9000", true},
		{`TOKEN="abc def"`, "TOKEN", "abc def", true},
		{"TOKEN='abc def'", "TOKEN", "abc def", true},
		{"  SPACED = padded ", "SPACED", "padded", true},
		{"# comment", "", "", false},
		{"", "", "", false},
		{"no-equals-sign", "", "", false},
		{"=value-without-key", "", "", false},
	}

	for _, tc := range cases {
		key, value, ok := parseDotEnvLine(tc.raw)
		if ok != tc.ok {
			t.Fatalf("parseDotEnvLine(%q) ok = %v, want %v", tc.raw, ok, tc.ok)
		}
		if key != tc.key || value != tc.value {
			t.Fatalf("parseDotEnvLine(%q) = (%q, %q), want (%q, %q)", tc.raw, key, value, tc.key, tc.value)
		}
	}
}

func TestLoadDotEnvSetsMissingVariables(t *testing.T) {
	t.Setenv("PRINTCORE_TEST_A", "")
	t.Setenv("PRINTCORE_TEST_B", "existing")

	path := filepath.Join(t.TempDir(), ".env")
	content := []byte("PRINTCORE_TEST_A=from-file\nPRINTCORE_TEST_B=from-file\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("PRINTCORE_TEST_A"); got != "from-file" {
		t.Fatalf("PRINTCORE_TEST_A = %q, want %q", got, "from-file")
	}
	if got := os.Getenv("PRINTCORE_TEST_B"); got != "existing" {
		t.Fatalf("PRINTCORE_TEST_B = %q, want %q", got, "existing")
	}
}

func TestLoadDotEnvMissingFileIsFine(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("loadDotEnv on missing file: %v", err)
	}
}
