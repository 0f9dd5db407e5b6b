package foreign

import (
	"bytes"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"lox/internal/object"
)

var dbConnections = map[int64]*sql.DB{}

func fnDbConnect() *object.Foreign {
	return &object.Foreign{
		Name:  "sqlConnect",
		Arity: 2,
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) object.Object {
			driver, err := unpackString(args[0], "driver")
			if err != nil {
				return ctx.NewError(err.Error())
			}
			connStr, err := unpackString(args[1], "connectionString")
			if err != nil {
				return ctx.NewError(err.Error())
			}

			db, err := sql.Open(driver, connStr)
			if err != nil {
				return ctx.NewError("failed to open connection: %v", err)
			}

			if err := db.Ping(); err != nil {
				db.Close()
				return ctx.NewError("failed to ping database: %v", err)
			}

			id := ctx.NextHandleID()
			dbConnections[id] = db
			return &object.Number{Value: float64(id)}
		},
	}
}

func fnDbQuery() *object.Foreign {
	return &object.Foreign{
		Name:  "sqlQuery",
		Arity: 2,
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) object.Object {
			db, errObj := unpackConnection(ctx, args[0])
			if errObj != nil {
				return errObj
			}
			query, err := unpackString(args[1], "sql")
			if err != nil {
				return ctx.NewError(err.Error())
			}

			rows, err := db.Query(query)
			if err != nil {
				return ctx.NewError("query failed: %v", err)
			}
			defer rows.Close()

			return renderRows(rows)
		},
	}
}

func fnDbExec() *object.Foreign {
	return &object.Foreign{
		Name:  "sqlExec",
		Arity: 2,
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) object.Object {
			db, errObj := unpackConnection(ctx, args[0])
			if errObj != nil {
				return errObj
			}
			stmt, err := unpackString(args[1], "sql")
			if err != nil {
				return ctx.NewError(err.Error())
			}

			result, err := db.Exec(stmt)
			if err != nil {
				return ctx.NewError("exec failed: %v", err)
			}

			affected, _ := result.RowsAffected()
			return &object.Number{Value: float64(affected)}
		},
	}
}

func fnDbClose() *object.Foreign {
	return &object.Foreign{
		Name:  "sqlClose",
		Arity: 1,
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) object.Object {
			handle, err := unpackNumber(args[0], "connection")
			if err != nil {
				return ctx.NewError(err.Error())
			}
			id := int64(handle)
			if db, ok := dbConnections[id]; ok {
				db.Close()
				delete(dbConnections, id)
			}
			return ctx.Nil()
		},
	}
}

func unpackConnection(ctx object.EvaluatorContext, arg object.Object) (*sql.DB, object.Object) {
	handle, err := unpackNumber(arg, "connection")
	if err != nil {
		return nil, ctx.NewError(err.Error())
	}
	db, ok := dbConnections[int64(handle)]
	if !ok {
		return nil, ctx.NewError("invalid connection handle")
	}
	return db, nil
}

// renderRows flattens a result set into one string, a line per row with
// column=value pairs. The language has no collection values, so this is
// the shape scripts get to work with.
func renderRows(rows *sql.Rows) object.Object {
	columns, _ := rows.Columns()

	var buf bytes.Buffer
	first := true
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		rows.Scan(pointers...)

		if !first {
			buf.WriteString("\n")
		}
		first = false
		for i, col := range columns {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(col)
			buf.WriteString("=")
			buf.WriteString(renderValue(values[i]))
		}
	}
	return &object.String{Value: buf.String()}
}

func renderValue(v interface{}) string {
	if v == nil {
		return "nil"
	}
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", x)
	}
}
