package theme

import (
	"testing"

	"github.com/theirongolddev/cplan/internal/model"
)

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("nope"); got.Name != FlexokiDark.Name {
		t.Errorf("ByName(nope) = %q, want %q", got.Name, FlexokiDark.Name)
	}
	if got := ByName("tokyo-night"); got.Name != "tokyo-night" {
		t.Errorf("ByName(tokyo-night) = %q", got.Name)
	}
}

func TestForLevel(t *testing.T) {
	th := FlexokiDark
	if th.ForLevel(model.LevelSafe) != th.Green {
		t.Error("safe should be green")
	}
	if th.ForLevel(model.LevelWarning) != th.Yellow {
		t.Error("warning should be yellow")
	}
	if th.ForLevel(model.LevelDanger) != th.Red {
		t.Error("danger should be red")
	}
}

func TestNamesAndValid(t *testing.T) {
	names := Names()
	if len(names) != len(All) {
		t.Fatalf("Names() = %d entries, want %d", len(names), len(All))
	}
	for _, n := range names {
		if !Valid(n) {
			t.Errorf("Valid(%q) = false", n)
		}
	}
	if Valid("") {
		t.Error("empty name should be invalid")
	}
}
