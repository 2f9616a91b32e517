package model

// StallSize categorises the physical footprint of a stall.
type StallSize string

const (
	StallSmall  StallSize = "SMALL"
	StallMedium StallSize = "MEDIUM"
	StallLarge  StallSize = "LARGE"
)

// Stall describes one fixed physical unit of exhibition space.  Stalls
// are identified by a unique human-readable code and positioned on a
// grid for floor-plan rendering.  The engine never mutates stalls and a
// stall carries no reservation flag of its own: whether it is taken is
// always derived from active reservation links, never stored here.
//
// Fields:
//  ID        - primary key identifier.
//  StallCode - unique human-readable code (e.g. "A-12").
//  Size      - size category (SMALL, MEDIUM, LARGE).
//  XPosition - horizontal grid position.
//  YPosition - vertical grid position.
type Stall struct {
	ID        uint64    // stalls.id
	StallCode string    // stalls.stall_code
	Size      StallSize // stalls.size
	XPosition int       // stalls.x_position
	YPosition int       // stalls.y_position
}
