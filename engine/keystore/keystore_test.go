package keystore

import "testing"

func TestValidName(t *testing.T) {
	good := []string{"id_rsa", "a", "backup-2024.01", "KEY_1"}
	for _, name := range good {
		if err := ValidName(name); err != nil {
			t.Fatalf("expected '%s' to be valid, got %v", name, err)
		}
	}

	bad := []string{"", ".hidden", "dir/key", "../key", "with space",
		"0123456789012345678901234567890123456789012345678901234567890123456789"}
	for _, name := range bad {
		if err := ValidName(name); err == nil {
			t.Fatalf("expected '%s' to be rejected", name)
		}
	}
}
