package relations

// Pact is an independent timed boolean switch. Duration -1 never expires.
type Pact struct {
	Duration  int  `json:"duration"`
	StartTurn int  `json:"start_turn"`
	Active    bool `json:"active"`
}

func NewPact(duration int) Pact {
	return Pact{Duration: duration, StartTurn: -1}
}

func (p *Pact) Activate(turn int) {
	p.Active = true
	p.StartTurn = turn
}

func (p *Pact) Abandon() {
	p.Active = false
	p.StartTurn = -1
}

func (p Pact) IsActive() bool { return p.Active }

func (p Pact) IsExpired(turn int) bool {
	if !p.Active || p.Duration < 0 {
		return false
	}
	return turn >= p.StartTurn+p.Duration
}

// TurnsLeft is -1 for a pact without expiry and 0 for an inactive one.
func (p Pact) TurnsLeft(turn int) int {
	if !p.Active {
		return 0
	}
	if p.Duration < 0 {
		return -1
	}
	left := p.StartTurn + p.Duration - turn
	if left < 0 {
		return 0
	}
	return left
}

func (p Pact) TurnsActive(turn int) int {
	if !p.Active {
		return 0
	}
	return turn - p.StartTurn
}
