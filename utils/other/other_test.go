package otherUtils

import (
	"math/rand/v2"
	"testing"

	"github.com/go-test/deep"
)

func TestSample(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e"}
	r := rand.New(rand.NewPCG(1, 2))

	for n := -1; n <= len(pool)+1; n++ {
		got := Sample(r, pool, n)

		want := min(max(n, 0), len(pool))
		if len(got) != want {
			t.Fatalf("Sample(%d) returned %d elements, want %d", n, len(got), want)
		}

		seen := map[string]bool{}
		for _, v := range got {
			if seen[v] {
				t.Errorf("Sample(%d) repeated %q", n, v)
			}
			seen[v] = true
		}
	}

	if diff := deep.Equal(pool, []string{"a", "b", "c", "d", "e"}); diff != nil {
		t.Errorf("pool modified: %v", diff)
	}
}

func TestSampleIsReproducible(t *testing.T) {
	pool := []int{1, 2, 3, 4, 5, 6, 7, 8}

	first := Sample(rand.New(rand.NewPCG(7, 7)), pool, 5)
	second := Sample(rand.New(rand.NewPCG(7, 7)), pool, 5)
	if diff := deep.Equal(first, second); diff != nil {
		t.Error(diff)
	}
}

func TestIntBetween(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	seen := map[int]bool{}
	for range 500 {
		v := IntBetween(r, 3, 5)
		if v < 3 || v > 5 {
			t.Fatalf("IntBetween(3, 5) = %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected every value in [3, 5] to show up, got %v", seen)
	}
}

func TestIIf(t *testing.T) {
	if got := IIf(true, "yes", "no"); got != "yes" {
		t.Errorf("IIf(true) = %q", got)
	}
	if got := IIf(false, 1, 2); got != 2 {
		t.Errorf("IIf(false) = %d", got)
	}
}
