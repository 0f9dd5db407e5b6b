package foreign

import (
	"github.com/dlclark/regexp2"

	"lox/internal/object"
)

func fnRegexMatches() *object.Foreign {
	return &object.Foreign{
		Name:  "matches",
		Arity: 2,
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) object.Object {
			str, err := unpackString(args[0], "str")
			if err != nil {
				return ctx.NewError(err.Error())
			}

			pattern, err := unpackString(args[1], "pattern")
			if err != nil {
				return ctx.NewError(err.Error())
			}

			re, err := regexp2.Compile(pattern, 0)
			if err != nil {
				return ctx.NewError(err.Error())
			}
			matched, err := re.MatchString(str)
			if err != nil {
				return ctx.NewError(err.Error())
			}

			return ctx.NativeBoolToBooleanObject(matched)
		},
	}
}
