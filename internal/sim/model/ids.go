package model

import "fmt"

// PlayerID is a dense, stable player index assigned when the game is created.
type PlayerID int

// NoPlayer marks an absent player reference (no surrendering side, no third party).
const NoPlayer PlayerID = -1

func (p PlayerID) Valid() bool { return p >= 0 }

func (p PlayerID) String() string {
	if p < 0 {
		return "P-"
	}
	return fmt.Sprintf("P%d", int(p))
}

// CityID is a dense, stable city index assigned by the surrounding simulation.
type CityID int

const NoCity CityID = -1

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Distance is the plot distance used for proximity and city valuation (hex-like, Chebyshev on offsets).
func Distance(a, b Point) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// Pair is an ordered (owner, subject) key.
type Pair struct {
	Owner   PlayerID
	Subject PlayerID
}
