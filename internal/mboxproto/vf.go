package mboxproto

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ResetCoordinator drives the PF side of a function-level-reset handshake
// across every VF bound to a PF (§4.7 step 4: "RESET_PREPARE ->
// PF_RESET_VF_BYE -> RESET_DONE, 60s wait"). Each VF's handshake runs
// independently; PrepareAll fans them out concurrently and waits for all
// of them (or the first hard failure) via errgroup.
type ResetCoordinator struct {
	endpoints map[uint16]*Endpoint
}

// NewResetCoordinator builds a coordinator over the given PF-side
// endpoints, one per online VF, keyed by VF function id.
func NewResetCoordinator(endpoints map[uint16]*Endpoint) *ResetCoordinator {
	return &ResetCoordinator{endpoints: endpoints}
}

// PrepareAll sends RESET_PREPARE to every VF and waits, up to timeoutMs
// per VF, for each VF's RESET_PREPARE response, fanning the round trips
// out across the set of VFs instead of serializing them (§4.7 "PF reset
// fan-out to VFs"). It does not wait for a separate PF_RESET_VF_BYE
// message from the VFs.
func (r *ResetCoordinator) PrepareAll(ctx context.Context, timeoutMs uint32) error {
	g, _ := errgroup.WithContext(ctx)
	for vfID, ep := range r.endpoints {
		vfID, ep := vfID, ep
		g.Go(func() error {
			var payload [31]uint32
			_, err := ep.Request(vfID, OpResetPrepare, payload, timeoutMs)
			return err
		})
	}
	return g.Wait()
}

// NotifyResetDone tells every VF the PF-side reset sequence has
// completed, letting each VF re-HELLO on its own schedule.
func (r *ResetCoordinator) NotifyResetDone() {
	var payload [31]uint32
	for vfID, ep := range r.endpoints {
		ep.Notify(vfID, OpResetDone, payload)
	}
}
