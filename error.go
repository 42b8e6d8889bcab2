package latchtree

import "errors"

//goland:noinspection GoUnusedGlobalVariable
var (
	// ErrBadFanout is returned by New when imax or lmax is below the
	// minimum fanout the rebalancing proofs require.
	ErrBadFanout = errors.New("latchtree: imax and lmax must each be at least 3")
)
