package pool

import "errors"

// ErrPoolClosed is returned by Acquire, TryAcquire, TryAcquireWithin and
// Fill once Close has run. Drain has no error result and does not report
// a closed pool.
var ErrPoolClosed = errors.New("pool: closed")

// ErrLeaseConsumed is returned by Lease.Get once the lease has already
// been released or invalidated.
var ErrLeaseConsumed = errors.New("pool: lease already released or invalidated")
