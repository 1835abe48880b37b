package slugs

import (
	"reflect"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Studio Jacket", "studio-jacket"},
		{"diacritics", "Café Crème Tote", "cafe-creme-tote"},
		{"punctuation runs", "Silk -- Scarf!!", "silk-scarf"},
		{"leading trailing", "  --Velvet Bag--  ", "velvet-bag"},
		{"digits kept", "Box 2000", "box-2000"},
		{"nothing usable", "???", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Fatalf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHandleToTitle(t *testing.T) {
	if got := HandleToTitle("summer-capsule"); got != "Summer Capsule" {
		t.Fatalf("got %q", got)
	}
	if got := HandleToTitle("--bags--"); got != "Bags" {
		t.Fatalf("got %q", got)
	}
}

func TestSplitListTrimsAndDropsEmpties(t *testing.T) {
	got := SplitList(" S | M ||XL ")
	want := []string{"S", "M", "XL"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if SplitList("  ") != nil {
		t.Fatal("blank cell should split to nil")
	}
}

func TestSplitAlignedKeepsInteriorEmpties(t *testing.T) {
	got := SplitAligned("|Back view|")
	want := []string{"", "Back view"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if SplitAligned(" | ") != nil {
		t.Fatal("all-empty cell should split to nil")
	}
}

func TestJoinAlignedKeepsInteriorEmpties(t *testing.T) {
	if got := JoinAligned([]string{"", "Back view", ""}); got != "|Back view" {
		t.Fatalf("got %q", got)
	}
	if got := JoinAligned([]string{"Front", "Back"}); got != "Front|Back" {
		t.Fatalf("got %q", got)
	}
}

func TestJoinListRoundTrip(t *testing.T) {
	values := []string{"cotton", "", " linen "}
	if got := JoinList(values); got != "cotton|linen" {
		t.Fatalf("got %q", got)
	}
}
