package mboxproto

import (
	"time"

	"github.com/cenkalti/backoff"

	"github.com/xlnx/qdma-core/internal/errs"
	"github.com/xlnx/qdma-core/internal/mboxhw"
	"github.com/xlnx/qdma-core/internal/sys"
)

// Handler processes one inbound request on the PF side and returns the
// response payload to send back plus the action the orchestration layer
// should take (§4.7 "PF dispatch handler invoking C3/C4/C5").
type Handler func(req sys.MboxMsg) (resp sys.MboxMsg, action PFAction)

type pendingKey struct {
	op  Op
	src uint16
	dst uint16
}

// outboundJob is one queued but not-yet-acknowledged outbound message
// (§4.7 "send-todo list").
type outboundJob struct {
	dstFunc uint16
	msg     sys.MboxMsg
}

// Endpoint is one side (PF or VF) of the mailbox protocol, driven by
// periodic Tick calls (§4.7 "Concurrency model": "triggered on a 1 ms
// timer").
type Endpoint struct {
	tr      *mboxhw.Transport
	selfID  uint16
	handler Handler

	todo    []outboundJob
	pending map[pendingKey]chan sys.MboxMsg
}

// NewEndpoint constructs an Endpoint. handler may be nil on a VF, which
// never receives dispatched requests, only responses.
func NewEndpoint(tr *mboxhw.Transport, selfID uint16, handler Handler) *Endpoint {
	return &Endpoint{
		tr:      tr,
		selfID:  selfID,
		handler: handler,
		pending: make(map[pendingKey]chan sys.MboxMsg),
	}
}

// Tick performs one round of mailbox work: drain one queued outbound
// send (if the hardware outbox is free) and process one inbound message,
// either fulfilling a pending request or dispatching a new one to
// Handler (§4.7 "rcv-pending lists"). It returns the action reported by
// Handler, or ActionNone if nothing was dispatched this tick.
func (e *Endpoint) Tick() PFAction {
	if len(e.todo) > 0 {
		job := e.todo[0]
		if err := e.tr.Send(job.dstFunc, job.msg); err == nil {
			e.todo = e.todo[1:]
		}
	}

	msg, err := e.tr.Recv()
	if err != nil {
		return ActionNone
	}

	op := Op(msg.Op)
	if op.IsResponse() {
		key := pendingKey{op: op, src: msg.SrcFunc, dst: msg.DstFunc}
		if ch, ok := e.pending[key]; ok {
			delete(e.pending, key)
			ch <- msg
		}
		return ActionNone
	}

	if e.handler == nil {
		return ActionNone
	}
	resp, action := e.handler(msg)
	resp.Op = uint8(op.Response())
	e.enqueue(msg.SrcFunc, resp)
	return action
}

func (e *Endpoint) enqueue(dstFunc uint16, msg sys.MboxMsg) {
	e.todo = append(e.todo, outboundJob{dstFunc: dstFunc, msg: msg})
}

// Request sends op to dstFunc and blocks (via repeated Tick calls) until
// the matching response arrives or timeoutMs elapses (§5 "Cancellation /
// timeout", §4.7 "retry_count/rsp_wait semantics"). retryCount resolves
// per the zero-timeout convention: (timeoutMs/MboxPollFrqMs)+1 retries
// after the first poll, so a timeoutMs of 0 still gets a budget of one
// retry rather than none, and never waits out the default budget.
func (e *Endpoint) Request(dstFunc uint16, op Op, payload [31]uint32, timeoutMs uint32) (sys.MboxMsg, error) {
	retryCount := timeoutMs/sys.MboxPollFrqMs + 1

	req := sys.MboxMsg{Op: uint8(op), SrcFunc: e.selfID, DstFunc: dstFunc, Payload: payload}
	e.enqueue(dstFunc, req)

	key := pendingKey{op: op.Response(), src: dstFunc, dst: e.selfID}
	ch := make(chan sys.MboxMsg, 1)
	e.pending[key] = ch

	var result sys.MboxMsg
	attempt := func() error {
		e.Tick()
		select {
		case result = <-ch:
			return nil
		default:
			return errs.ErrMboxTimeout
		}
	}

	b := backoff.WithMaxRetries(
		backoff.NewConstantBackOff(time.Millisecond*time.Duration(sys.MboxPollFrqMs)),
		uint64(retryCount),
	)
	if err := backoff.Retry(attempt, b); err != nil {
		delete(e.pending, key)
		return sys.MboxMsg{}, errs.New("mboxproto.request", errs.CodeMboxTimeout, err)
	}
	return result, nil
}

// Notify sends op to dstFunc without waiting for a response (§4.7
// "send-todo list" fire-and-forget entries, e.g. QNOTIFY_ADD/DEL).
func (e *Endpoint) Notify(dstFunc uint16, op Op, payload [31]uint32) {
	e.enqueue(dstFunc, sys.MboxMsg{Op: uint8(op), SrcFunc: e.selfID, DstFunc: dstFunc, Payload: payload})
}
