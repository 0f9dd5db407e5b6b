package foreign

import (
	"fmt"

	"lox/internal/object"
)

func unpackString(arg object.Object, argName string) (string, error) {
	str, ok := arg.(*object.String)
	if !ok {
		return "", fmt.Errorf("argument %s must be a STRING, got=%s", argName, arg.Type())
	}
	return str.Value, nil
}

func unpackNumber(arg object.Object, argName string) (float64, error) {
	num, ok := arg.(*object.Number)
	if !ok {
		return 0, fmt.Errorf("argument %s must be a NUMBER, got=%s", argName, arg.Type())
	}
	return num.Value, nil
}
