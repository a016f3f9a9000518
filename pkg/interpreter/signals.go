package interpreter

import "github.com/FANNYMU/blood-language/pkg/runtime"

type controlKind int

const (
	controlNormal controlKind = iota
	controlBreak
	controlContinue
	controlReturn
)

func (k controlKind) String() string {
	switch k {
	case controlBreak:
		return "break"
	case controlContinue:
		return "continue"
	case controlReturn:
		return "return"
	default:
		return "normal"
	}
}

// signal is the outcome of executing one statement. Non-normal signals stop
// the enclosing block and travel outward until a loop or call consumes them.
// Signals are plain values, never errors.
type signal struct {
	kind  controlKind
	value runtime.Value
}

var (
	normalSignal   = signal{kind: controlNormal}
	breakSignal    = signal{kind: controlBreak}
	continueSignal = signal{kind: controlContinue}
)

func returnSignal(value runtime.Value) signal {
	return signal{kind: controlReturn, value: value}
}
