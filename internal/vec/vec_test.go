package vec

import "testing"

func approxEqual(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestCrossIsPerpendicularToBothOperands(t *testing.T) {
	a := New(1, 0, 0)
	b := New(0, 1, 0)
	c := a.Cross(b)

	if !approxEqual(c.Dot(a), 0, 1e-6) || !approxEqual(c.Dot(b), 0, 1e-6) {
		t.Fatalf("expected a cross b perpendicular to both, got %v", c)
	}
	if c.Sub(UnitZ).Mag() > 1e-6 {
		t.Fatalf("expected x cross y == z, got %v", c)
	}
}

func TestNormalizedHasUnitMagnitude(t *testing.T) {
	v := New(3, 4, 0).Normalized()
	if !approxEqual(v.Mag(), 1, 1e-6) {
		t.Fatalf("expected unit magnitude, got %v", v.Mag())
	}
}

func TestNormalizedZeroVectorDoesNotPanic(t *testing.T) {
	v := Zero.Normalized()
	if v != Zero {
		t.Fatalf("expected normalizing the zero vector to return the zero vector, got %v", v)
	}
}

func TestReflectedAboutAxisAlignedNormal(t *testing.T) {
	// incoming direction pointing away from the surface, striking straight on
	v := New(0, 0, 1)
	r := v.Reflected(UnitZ)
	if r.Sub(New(0, 0, 1)).Mag() > 1e-6 {
		t.Fatalf("expected a straight-on reflection to bounce straight back, got %v", r)
	}
}

func TestComponentMinMax(t *testing.T) {
	v := New(-1, 5, 2)
	if v.ComponentMin() != -1 {
		t.Fatalf("expected component min -1, got %v", v.ComponentMin())
	}
	if v.ComponentMax() != 5 {
		t.Fatalf("expected component max 5, got %v", v.ComponentMax())
	}
}

func TestMaxAxisPicksLargestComponent(t *testing.T) {
	cases := []struct {
		v    Vec3
		want int
	}{
		{New(5, 1, 1), 0},
		{New(1, 5, 1), 1},
		{New(1, 1, 5), 2},
	}
	for _, c := range cases {
		if got := MaxAxis(c.v); got != c.want {
			t.Fatalf("MaxAxis(%v) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestAtPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected At(3) to panic")
		}
	}()
	New(1, 2, 3).At(3)
}

func TestContainsNaN(t *testing.T) {
	v := New(1, float32(nan()), 3)
	if !v.ContainsNaN() {
		t.Fatalf("expected ContainsNaN to detect a NaN component")
	}
	if One.ContainsNaN() {
		t.Fatalf("expected a finite vector to report no NaN")
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestNewRayCachesNormalizedDirAndInverse(t *testing.T) {
	r := NewRay(Zero, New(2, 0, 0))
	if !approxEqual(r.Dir.Mag(), 1, 1e-6) {
		t.Fatalf("expected NewRay to normalize the direction, got %v", r.Dir)
	}
	if !approxEqual(r.InvDir.X, 1, 1e-6) {
		t.Fatalf("expected InvDir.X == 1/1, got %v", r.InvDir.X)
	}
}

func TestRayAtEvaluatesParametrically(t *testing.T) {
	r := NewRay(New(1, 0, 0), New(0, 1, 0))
	p := r.At(5)
	if p.Sub(New(1, 5, 0)).Mag() > 1e-6 {
		t.Fatalf("expected origin + 5*dir, got %v", p)
	}
}
