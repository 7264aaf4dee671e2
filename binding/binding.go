package binding

import (
	"github.com/hhkbp2/tpcc"
)

func AddBindings() {
	tpcc.Databases["mysql"] = func() tpcc.DB {
		return NewMysqlDB()
	}
	tpcc.Databases["postgres"] = func() tpcc.DB {
		return NewPostgresDB()
	}
	tpcc.Databases["pgx"] = func() tpcc.DB {
		return NewPgxDB()
	}
	tpcc.Databases["sqlite"] = func() tpcc.DB {
		return NewSQLiteDB()
	}
}
