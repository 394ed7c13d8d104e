package core

// GameState is the top-level phase of a game instance
type GameState int

const (
	StateMenu GameState = iota
	StatePlaying
	StateVictoryLap
	StateWon
	StateLost
)

func (s GameState) String() string {
	names := [...]string{"menu", "playing", "victory_lap", "won", "lost"}
	if int(s) >= 0 && int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// transitions lists legal edges; playing->playing is a level restart
var transitions = map[GameState][]GameState{
	StateMenu:       {StatePlaying},
	StatePlaying:    {StatePlaying, StateVictoryLap, StateWon, StateLost, StateMenu},
	StateVictoryLap: {StateWon, StateMenu, StatePlaying},
	StateWon:        {StatePlaying, StateMenu},
	StateLost:       {StatePlaying, StateMenu},
}

// CanTransition reports whether from -> to is a legal edge
func CanTransition(from, to GameState) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Running reports whether belts and music should be advancing in this state
func (s GameState) Running() bool {
	return s == StatePlaying || s == StateVictoryLap || s == StateWon
}
