// Package mboxproto implements the PF<->VF mailbox RPC protocol (spec.md
// §2 C7): opcodes, send-todo/receive-pending queues, retry/ack semantics,
// and the PF-side dispatch that drives C3/C4/C5 on a VF's behalf.
package mboxproto

// Op names one mailbox opcode (§3 "Mailbox opcode", grounded on
// qdma_mbox_protocol.h's QDMA_MBOX_OPCODE_* enum). A response to opcode
// Op is carried on Op|RespBit.
type Op uint8

const (
	OpHello Op = iota + 1
	OpBye
	OpPFBye
	OpPFResetVFBye
	OpFMap
	OpCSRConf
	OpQAddOrDel
	OpQNotifyAdd
	OpQNotifyDel
	OpQCtxtWrite
	OpQCtxtRead
	OpQCtxtClear
	OpQCtxtInvalidate
	OpIntrCtxtWrite
	OpIntrCtxtRead
	OpIntrCtxtClear
	OpIntrCtxtInvalidate
	OpQActiveCntGet
	OpRegListRead
	OpResetPrepare
	OpResetDone
	opCount
)

func (o Op) String() string {
	switch o {
	case OpHello:
		return "HELLO"
	case OpBye:
		return "BYE"
	case OpPFBye:
		return "PF_BYE"
	case OpPFResetVFBye:
		return "PF_RESET_VF_BYE"
	case OpFMap:
		return "FMAP"
	case OpCSRConf:
		return "CSR"
	case OpQAddOrDel:
		return "QREQ"
	case OpQNotifyAdd:
		return "QNOTIFY_ADD"
	case OpQNotifyDel:
		return "QNOTIFY_DEL"
	case OpQCtxtWrite:
		return "QCTXT_WRT"
	case OpQCtxtRead:
		return "QCTXT_RD"
	case OpQCtxtClear:
		return "QCTXT_CLR"
	case OpQCtxtInvalidate:
		return "QCTXT_INV"
	case OpIntrCtxtWrite:
		return "INTR_CTXT_WRT"
	case OpIntrCtxtRead:
		return "INTR_CTXT_RD"
	case OpIntrCtxtClear:
		return "INTR_CTXT_CLR"
	case OpIntrCtxtInvalidate:
		return "INTR_CTXT_INV"
	case OpQActiveCntGet:
		return "GET_QACTIVE_CNT"
	case OpRegListRead:
		return "REG_LIST_READ"
	case OpResetPrepare:
		return "RESET_PREPARE"
	case OpResetDone:
		return "RESET_DONE"
	default:
		return "UNKNOWN"
	}
}

// RespBit marks a message as the response to the opcode with this bit
// cleared (§3 "response opcode = base+0x80").
const RespBit Op = 0x80

// IsResponse reports whether op is a response opcode.
func (o Op) IsResponse() bool { return o&RespBit != 0 }

// Request strips the response bit.
func (o Op) Request() Op { return o &^ RespBit }

// Response sets the response bit.
func (o Op) Response() Op { return o | RespBit }

// PFAction is the result the PF-side dispatcher reports back to the
// device-orchestration layer after handling an inbound message (§4.7
// "PF dispatch handler... returning {..., VF_ONLINE, VF_OFFLINE,
// VF_RESET, PF_RESET_DONE, PF_BYE, VF_RESET_BYE}").
type PFAction uint8

const (
	ActionNone PFAction = iota
	ActionVFOnline
	ActionVFOffline
	ActionVFReset
	ActionPFResetDone
	ActionPFBye
	ActionVFResetBye
)
