package entity

// TransferStatus estado de un traslado entre bodegas.
//
//	DRAFT ──confirm──> IN_TRANSIT ──receive──> RECEIVED
//	  │                  │  ▲  └──receivePartial──> PARTIAL ──receive──> RECEIVED
//	  └──cancel──┐       │  └─confirm                 └──reject──> REJECTED
//	             ▼       ├──reject──> REJECTED
//	          CANCELED <─┘cancel
type TransferStatus string

const (
	TransferStatusDraft     TransferStatus = "DRAFT"
	TransferStatusInTransit TransferStatus = "IN_TRANSIT"
	TransferStatusPartial   TransferStatus = "PARTIAL"
	TransferStatusReceived  TransferStatus = "RECEIVED"
	TransferStatusRejected  TransferStatus = "REJECTED"
	TransferStatusCanceled  TransferStatus = "CANCELED"
)

type transferOp int

const (
	transferOpConfirm transferOp = iota
	transferOpReceive
	transferOpReject
	transferOpCancel
	transferOpEditLines
	transferOpAssignDestination
)

var transferTransitions = map[TransferStatus]map[transferOp]bool{
	TransferStatusDraft: {
		transferOpConfirm: true, transferOpCancel: true,
		transferOpEditLines: true, transferOpAssignDestination: true,
	},
	TransferStatusInTransit: {
		transferOpConfirm: true, transferOpReceive: true, transferOpReject: true,
		transferOpCancel: true, transferOpAssignDestination: true,
	},
	TransferStatusPartial:  {transferOpReceive: true, transferOpReject: true},
	TransferStatusReceived: {},
	TransferStatusRejected: {},
	TransferStatusCanceled: {},
}

func (s TransferStatus) allows(op transferOp) bool { return transferTransitions[s][op] }

func (s TransferStatus) CanConfirm() bool   { return s.allows(transferOpConfirm) }
func (s TransferStatus) CanReceive() bool   { return s.allows(transferOpReceive) }
func (s TransferStatus) CanReject() bool    { return s.allows(transferOpReject) }
func (s TransferStatus) CanCancel() bool    { return s.allows(transferOpCancel) }
func (s TransferStatus) CanEditLines() bool { return s.allows(transferOpEditLines) }

// CanAssignDestination permite fijar la ubicación destino hasta que la mercancía llega.
func (s TransferStatus) CanAssignDestination() bool { return s.allows(transferOpAssignDestination) }

// IsTerminal RECEIVED, REJECTED y CANCELED no admiten más transiciones.
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusReceived || s == TransferStatusRejected || s == TransferStatusCanceled
}

func (s TransferStatus) IsValid() bool {
	_, ok := transferTransitions[s]
	return ok
}

func (s TransferStatus) String() string { return string(s) }
