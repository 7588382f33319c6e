package permission_test

import (
	"testing"

	"apidiff/internal/permission"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		want     permission.Range
	}{
		{"identical", "ohos.permission.A", "ohos.permission.A", permission.Unchanged},
		{"widened by or", "ohos.PERMISSION.A", "ohos.PERMISSION.A or ohos.PERMISSION.B", permission.Widened},
		{"narrowed by removing or", "ohos.PERMISSION.A or ohos.PERMISSION.B", "ohos.PERMISSION.A", permission.Narrowed},
		{"narrowed by and", "ohos.permission.A", "ohos.permission.A and ohos.permission.B", permission.Narrowed},
		{"widened by dropping and", "ohos.permission.A && ohos.permission.B", "ohos.permission.B", permission.Widened},
		{"reordered", "ohos.permission.A or ohos.permission.B", "ohos.permission.B or ohos.permission.A", permission.Unchanged},
		{"replaced", "ohos.permission.A", "ohos.permission.B", permission.Changed},
		{"grouping", "(ohos.permission.A or ohos.permission.B) and ohos.permission.C", "ohos.permission.C", permission.Widened},
		{"trailing space", "ohos.permission.A ", "ohos.permission.A", permission.Unchanged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := permission.Classify(tt.old, tt.new)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Classify(%q, %q) = %s, want %s", tt.old, tt.new, got, tt.want)
			}
		})
	}
}

func TestClassifyUnparsableIsChanged(t *testing.T) {
	got, err := permission.Classify("ohos.permission.A", "ohos.permission.A or (")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if got != permission.Changed {
		t.Fatalf("got %s, want changed", got)
	}
}

func TestCompatible(t *testing.T) {
	if permission.Narrowed.Compatible() {
		t.Fatal("narrowed must be incompatible")
	}
	for _, r := range []permission.Range{permission.Unchanged, permission.Widened, permission.Changed} {
		if !r.Compatible() {
			t.Fatalf("%s must be compatible", r)
		}
	}
}
