package protocol

// State is a position in the bilateral channel state machine, shared by
// both the funder and the non-funder even though each only visits some of
// its values on the way to Normal.
type State uint8

const (
	// Init is where every channel starts: no OpenChannel has been
	// exchanged yet.
	Init State = iota

	// OpenWaitAnchor is the non-funder's wait for the funder's
	// OpenAnchor, after both sides have exchanged OpenChannel.
	OpenWaitAnchor

	// OpenWaitSig is the funder's state after both sides have exchanged
	// OpenChannel: it sends OpenAnchor from here and then waits for the
	// non-funder's OpenCommitSig.
	OpenWaitSig

	// OpenWaitComplete is either side's wait for the anchor to reach
	// its minimum confirmation depth and for OpenComplete to follow.
	OpenWaitComplete

	// Normal is the channel's idle, operational state: no change is
	// staged.
	Normal

	// HtlcProposed is entered the moment a change (an add, fulfill, or
	// fail) has been staged and its UpdateAccept is outstanding.
	HtlcProposed

	// HtlcAccepted is entered once UpdateAccept has been processed and
	// a UpdateSignature/UpdateComplete exchange is outstanding to close
	// out the dance and return to Normal.
	HtlcAccepted

	// Closing and Closed exist only so the state enum names every
	// position a channel can occupy; this core never transitions into
	// them, since the close sub-protocol is out of scope.
	Closing
	Closed
)

func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case OpenWaitAnchor:
		return "open_wait_anchor"
	case OpenWaitSig:
		return "open_wait_sig"
	case OpenWaitComplete:
		return "open_wait_complete"
	case Normal:
		return "normal"
	case HtlcProposed:
		return "htlc_proposed"
	case HtlcAccepted:
		return "htlc_accepted"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}
