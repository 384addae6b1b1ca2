package sqlite

import "testing"

func TestParseDSN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "memory", input: "sqlite://:memory:", expected: ":memory:"},
		{name: "memory with query", input: "sqlite://:memory:?_pragma=busy_timeout(1000)", expected: ":memory:?_pragma=busy_timeout(1000)"},
		{name: "absolute path", input: "sqlite:///var/lib/itemfinder.db", expected: "/var/lib/itemfinder.db"},
		{name: "explicit relative path", input: "sqlite://./itemfinder.db", expected: "./itemfinder.db"},
		{name: "bare relative path", input: "sqlite://itemfinder.db", expected: "./itemfinder.db"},
		{name: "escaped path", input: "sqlite://my%20items.db", expected: "./my items.db"},
		{name: "query parameters", input: "sqlite://items.db?_pragma=busy_timeout(5000)", expected: "./items.db?_pragma=busy_timeout(5000)"},
		{name: "escaped path with query", input: "sqlite://my%20items.db?mode=ro", expected: "./my items.db?mode=ro"},
		{name: "wrong scheme", input: "postgres://localhost/items", wantErr: true},
		{name: "empty path", input: "sqlite://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDSN(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseDSN(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDSN(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("parseDSN(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsMemory(t *testing.T) {
	tests := map[string]bool{
		":memory:":                            true,
		":memory:?_pragma=busy_timeout(1000)": true,
		"./:memory:":                          false,
		"./items.db":                          false,
	}
	for dsn, want := range tests {
		if got := isMemory(dsn); got != want {
			t.Errorf("isMemory(%q) = %v, want %v", dsn, got, want)
		}
	}
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("-- comment\nCREATE TABLE a (x INTEGER);\nCREATE TABLE b (\n  y TEXT\n);\n")
	if len(got) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(got), got)
	}
}
