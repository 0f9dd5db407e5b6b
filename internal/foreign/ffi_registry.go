package foreign

import (
	"lox/internal/object"
)

// GetForeignFunctions returns the native functions installed into the
// interpreter's global environment before a program runs. Arity is
// checked centrally by the evaluator, so the implementations can assume
// the advertised argument count.
func GetForeignFunctions() map[string]*object.Foreign {
	return map[string]*object.Foreign{
		"clock": fnTimeClock(),
		"sleep": fnTimeSleep(),

		"env": fnSysEnv(),

		"matches": fnRegexMatches(),

		"sqlConnect": fnDbConnect(),
		"sqlQuery":   fnDbQuery(),
		"sqlExec":    fnDbExec(),
		"sqlClose":   fnDbClose(),
	}
}
