package identity

import "testing"

func TestSafe(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"simple", "joe@example.com", "joe-example-com"},
		{"dotted local part", "joe.smith@mail.example.com", "joe-smith-mail-example-com"},
		{"upper case folds", "Joe.Smith@Example.COM", "joe-smith-example-com"},
		{"surrounding space trimmed", "  joe@example.com ", "joe-example-com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Safe(tt.email); got != tt.want {
				t.Errorf("Safe(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

// Applying the transform to its own output must be a no-op, so a value
// that is already a store key never changes shape.
func TestSafeIdempotent(t *testing.T) {
	once := Safe("Joe.Smith@Example.com")
	twice := Safe(once)
	if once != twice {
		t.Errorf("Safe is not idempotent: %q -> %q", once, twice)
	}
}

func TestNew(t *testing.T) {
	id := New("Joe@Example.com", "Joe Smith")
	if id.Email != "Joe@Example.com" {
		t.Errorf("raw email changed: %q", id.Email)
	}
	if id.Safe != "joe-example-com" {
		t.Errorf("unexpected safe form: %q", id.Safe)
	}
	if id.Name != "Joe Smith" {
		t.Errorf("unexpected name: %q", id.Name)
	}
}
