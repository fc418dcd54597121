package mboxproto

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlnx/qdma-core/internal/sys"
)

// runTicker pumps ep.Tick() in the background until stop is closed, so a
// synchronous Request/PrepareAll call on the other endpoint has a partner
// to answer it (mirrors the pf/vf pumping already used in
// TestRequestResponsePairing).
func runTicker(ep *Endpoint, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
			ep.Tick()
			time.Sleep(time.Millisecond)
		}
	}
}

func TestResetCoordinatorPrepareAllFansOutAndWaits(t *testing.T) {
	pf1, vf1 := newPair()
	pf2, vf2 := newPairWithVF(2)

	vf1.handler = func(req sys.MboxMsg) (sys.MboxMsg, PFAction) {
		return sys.MboxMsg{}, ActionNone
	}
	vf2.handler = func(req sys.MboxMsg) (sys.MboxMsg, PFAction) {
		return sys.MboxMsg{}, ActionNone
	}

	stop := make(chan struct{})
	go runTicker(vf1, stop)
	go runTicker(vf2, stop)
	defer close(stop)

	rc := NewResetCoordinator(map[uint16]*Endpoint{1: pf1, 2: pf2})
	err := rc.PrepareAll(context.Background(), 200)
	require.NoError(t, err)
}

func TestResetCoordinatorPrepareAllFailsWhenAVFNeverAnswers(t *testing.T) {
	pf1, vf1 := newPair()
	pf2, _ := newPair() // vf2 side never ticked: its RESET_PREPARE goes unanswered

	stop := make(chan struct{})
	vf1.handler = func(req sys.MboxMsg) (sys.MboxMsg, PFAction) {
		return sys.MboxMsg{}, ActionNone
	}
	go runTicker(vf1, stop)
	defer close(stop)

	rc := NewResetCoordinator(map[uint16]*Endpoint{1: pf1, 2: pf2})
	err := rc.PrepareAll(context.Background(), 20)
	assert.Error(t, err)
}

func TestResetCoordinatorNotifyResetDoneIsFireAndForget(t *testing.T) {
	pf, vf := newPair()
	received := false
	vf.handler = func(req sys.MboxMsg) (sys.MboxMsg, PFAction) {
		received = true
		return sys.MboxMsg{}, ActionNone
	}

	rc := NewResetCoordinator(map[uint16]*Endpoint{1: pf})
	rc.NotifyResetDone()
	pump(pf, 1) // NotifyResetDone only queues; the PF's next tick sends it
	pump(vf, 3)
	assert.True(t, received)
}
