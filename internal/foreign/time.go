package foreign

import (
	"time"

	"lox/internal/object"
)

func fnTimeClock() *object.Foreign {
	return &object.Foreign{
		Name:  "clock",
		Arity: 0,
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) object.Object {
			// Seconds since the Unix epoch, fractional part included.
			seconds := float64(time.Now().UnixNano()) / float64(time.Second)
			return &object.Number{Value: seconds}
		},
	}
}

func fnTimeSleep() *object.Foreign {
	return &object.Foreign{
		Name:  "sleep",
		Arity: 1,
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) object.Object {
			millis, err := unpackNumber(args[0], "millis")
			if err != nil {
				return ctx.NewError(err.Error())
			}
			if millis < 0 {
				return ctx.NewError("argument to `sleep` must be non-negative, got=%s", args[0].Inspect())
			}

			time.Sleep(time.Duration(millis) * time.Millisecond)

			return ctx.Nil()
		},
	}
}
