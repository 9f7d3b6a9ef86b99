package prompts

import (
	"regexp"
	"testing"

	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/domain"
)

var idPattern = regexp.MustCompile(`^VK\.(IE|NS|TF|JP)\.[1-5][ABC]\.v1$`)

func TestCatalogShape(t *testing.T) {
	all := List("")
	if len(all) != 60 {
		t.Fatalf("expected 60 prompts (4 dims x 5 slots x 3 variants), got %d", len(all))
	}

	seen := make(map[string]bool, len(all))
	for _, spec := range all {
		if !idPattern.MatchString(spec.ID) {
			t.Fatalf("prompt id %q does not match the VK.<dim>.<slot><variant>.v1 format", spec.ID)
		}
		if seen[spec.ID] {
			t.Fatalf("duplicate prompt id %s", spec.ID)
		}
		seen[spec.ID] = true
		if spec.Text == "" {
			t.Fatalf("prompt %s has empty text", spec.ID)
		}

		order, ok := domain.SubAxisOrder[spec.Dimension]
		if !ok {
			t.Fatalf("prompt %s references unknown dimension %s", spec.ID, spec.Dimension)
		}
		found := false
		for _, sub := range order {
			if sub == spec.SubAxis {
				found = true
			}
		}
		if !found {
			t.Fatalf("prompt %s references sub-axis %s outside dimension %s", spec.ID, spec.SubAxis, spec.Dimension)
		}
	}
}

func TestEveryDimensionCoversFiveSubAxes(t *testing.T) {
	for dim, order := range domain.SubAxisOrder {
		if len(order) != 5 {
			t.Fatalf("dimension %s should have exactly 5 sub-axes, got %d", dim, len(order))
		}
		covered := make(map[domain.SubAxisID]int)
		for _, spec := range List(dim) {
			covered[spec.SubAxis]++
		}
		for _, sub := range order {
			if covered[sub] != 3 {
				t.Fatalf("dimension %s sub-axis %s should have 3 variants, got %d", dim, sub, covered[sub])
			}
		}
	}
}

func TestGetUnknownID(t *testing.T) {
	if _, err := Get("VK.IE.9Z.v1"); err == nil {
		t.Fatal("expected an error for an unknown prompt id")
	}
	spec, err := Get("VK.JP.5B.v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Dimension != domain.DimensionJP || spec.SubAxis != domain.SubAxisApproachToConstraints {
		t.Fatalf("unexpected spec: %+v", spec)
	}
}
