package lifecycle

// State is the position of an attempt in sign, submit and verify.
type State int

const (
	Built State = iota
	Signed
	Submitted
	Validated
	Failed
)

var stateNames = [...]string{"Built", "Signed", "Submitted", "Validated", "Failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Validated || s == Failed
}
