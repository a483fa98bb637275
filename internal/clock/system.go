package clock

import (
	"context"
	"time"

	"go.uber.org/fx"
)

var Module = fx.Module("clock",
	fx.Provide(func() Clock { return SystemClock{} }),
)

type SystemClock struct{}

func (SystemClock) Now(_ context.Context) time.Time {
	return time.Now().UTC()
}

// Fixed is a test clock pinned to a single instant.
type Fixed time.Time

func (f Fixed) Now(_ context.Context) time.Time {
	return time.Time(f)
}
