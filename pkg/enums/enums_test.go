package enums

import "testing"

func TestHandoffKindIsValid(t *testing.T) {
	t.Parallel()

	for _, kind := range validHandoffKinds {
		if !kind.IsValid() {
			t.Fatalf("expected %q to be valid", kind)
		}
	}
	if HandoffKind("pickup").IsValid() {
		t.Fatalf("expected unknown kind to be invalid")
	}
}
