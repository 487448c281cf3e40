package pssmlt

import (
	"testing"

	"github.com/nthall/gopt/internal/rng"
)

func TestRejectRestoresPreviousValue(t *testing.T) {
	p := New(rng.New(1, 2))

	p.StartIteration()
	first := p.GenUnif()

	p.StartIteration()
	p.GenUnif() // mutate the same coordinate again
	p.Reject()

	// GenUnif would mutate the coordinate again, so read the stored value.
	restored := p.state[0].value
	if restored != first {
		t.Fatalf("expected Reject to restore the coordinate to %v, got %v", first, restored)
	}
}

func TestAcceptKeepsTheMutatedValue(t *testing.T) {
	p := New(rng.New(3, 4))

	p.StartIteration()
	p.GenUnif()
	p.Accept()

	p.StartIteration()
	v := p.GenUnif()
	if v < 0 || v >= 1 {
		t.Fatalf("expected a value in [0,1), got %v", v)
	}
}

func TestValuesStayInUnitInterval(t *testing.T) {
	p := New(rng.New(7, 8))
	for i := 0; i < 200; i++ {
		p.StartIteration()
		for j := 0; j < 4; j++ {
			v := p.GenUnif()
			if v < 0 || v >= 1 {
				t.Fatalf("iteration %d coordinate %d escaped [0,1): %v", i, j, v)
			}
		}
		if i%3 == 0 {
			p.Accept()
		} else {
			p.Reject()
		}
	}
}
