package entity

// MovementStatus estado del ciclo de vida de un movimiento: DRAFT -> POSTED -> VOID.
type MovementStatus string

const (
	MovementStatusDraft  MovementStatus = "DRAFT"
	MovementStatusPosted MovementStatus = "POSTED"
	MovementStatusVoid   MovementStatus = "VOID"
)

type movementOp int

const (
	movementOpPost movementOp = iota
	movementOpVoid
	movementOpEditLines
)

// Tabla de legalidad: estado -> operaciones permitidas. Lo que no está aquí es ilegal.
var movementTransitions = map[MovementStatus]map[movementOp]bool{
	MovementStatusDraft:  {movementOpPost: true, movementOpEditLines: true},
	MovementStatusPosted: {movementOpVoid: true},
	MovementStatusVoid:   {},
}

func (s MovementStatus) allows(op movementOp) bool { return movementTransitions[s][op] }

func (s MovementStatus) CanPost() bool      { return s.allows(movementOpPost) }
func (s MovementStatus) CanVoid() bool      { return s.allows(movementOpVoid) }
func (s MovementStatus) CanEditLines() bool { return s.allows(movementOpEditLines) }

func (s MovementStatus) IsValid() bool {
	_, ok := movementTransitions[s]
	return ok
}

func (s MovementStatus) String() string { return string(s) }
