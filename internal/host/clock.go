// Package host adapts the operating system to the tracker: wall clock,
// project location, file system events and keyboard input.
package host

import (
	"github.com/penwyp/go-project-timer/internal/core/model"
	"github.com/penwyp/go-project-timer/internal/util"
)

// SystemClock reads the wall clock in whole seconds
type SystemClock struct{}

func (SystemClock) Now() model.Timestamp {
	return model.Timestamp(util.GetTimeProvider().NowUnix())
}
