package progress

import "testing"

func TestReportAccumulatesRaysAndSplats(t *testing.T) {
	r := New(10, 4)
	r.Report(100, 4)
	r.Report(50, 2)

	if r.raysShot != 150 {
		t.Fatalf("expected 150 rays accumulated, got %d", r.raysShot)
	}
	if r.splatsDone != 6 {
		t.Fatalf("expected 6 splats accumulated, got %d", r.splatsDone)
	}
}

func TestSamplesDoneTracksSplatsPerFrame(t *testing.T) {
	r := New(3, 4)
	r.Report(0, 4)
	r.Report(0, 4)

	if r.samplesDone != 2 {
		t.Fatalf("expected 2 whole samples done, got %d", r.samplesDone)
	}
}

func TestFinishDoesNotPanicWithZeroSamples(t *testing.T) {
	r := New(0, 0)
	r.Finish()
}
