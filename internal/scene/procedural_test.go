package scene

import "testing"

func TestCornellBoxHasOneSamplableLight(t *testing.T) {
	s := NewCornellBox(16, 16)
	if len(s.Samplable) != 2 {
		t.Fatalf("expected the emissive ceiling panel's 2 triangles to be samplable, got %d", len(s.Samplable))
	}
}

func TestDefaultLoaderIgnoresPathAndBuildsCornellBox(t *testing.T) {
	l := DefaultLoader{Width: 8, Height: 8}
	s, err := l.Load("/does/not/exist.gltf")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(s.Triangles) == 0 {
		t.Fatalf("expected a nonempty procedural scene")
	}
}
