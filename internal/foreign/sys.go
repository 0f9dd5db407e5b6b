package foreign

import (
	"os"

	"lox/internal/object"
)

func fnSysEnv() *object.Foreign {
	return &object.Foreign{
		Name:  "env",
		Arity: 1,
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) object.Object {
			name, err := unpackString(args[0], "name")
			if err != nil {
				return ctx.NewError(err.Error())
			}

			value, ok := os.LookupEnv(name)
			if !ok {
				return ctx.Nil()
			}
			return &object.String{Value: value}
		},
	}
}
