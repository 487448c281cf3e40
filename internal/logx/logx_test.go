package logx

import (
	"testing"
)

func TestSetVerboseTogglesTraceEmission(t *testing.T) {
	SetVerbose(false)
	Trace("should be silent")

	SetVerbose(true)
	defer SetVerbose(false)
	Trace("should print, value=%d", 42)
}
