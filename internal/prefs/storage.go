package prefs

import (
	"context"
	"time"
)

// storageTimeout bounds one read or write of a preference.
const storageTimeout = 3 * time.Second

// storageContext detaches preference I/O from the caller's cancellation and
// bounds it with storageTimeout.
func storageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), storageTimeout)
}
