package binding

import (
	"fmt"

	"github.com/hhkbp2/tpcc"
	_ "github.com/lib/pq"
)

const (
	PropertyPostgresHost            = "postgres.host"
	PropertyPostgresHostDefault     = "127.0.0.1"
	PropertyPostgresPort            = "postgres.port"
	PropertyPostgresPortDefault     = "5432"
	PropertyPostgresDatabase        = "postgres.db"
	PropertyPostgresDatabaseDefault = "tpcc"
	PropertyPostgresUser            = "postgres.user"
	PropertyPostgresUserDefault     = "postgres"
	PropertyPostgresPassword        = "postgres.password"
	PropertyPostgresPasswordDefault = ""
	PropertyPostgresOptions         = "postgres.options"
	PropertyPostgresOptionsDefault  = "sslmode=disable"
)

var (
	postgresDialect = &sqlDialect{
		driver:     "postgres",
		product:    tpcc.ProductPostgreSQL,
		versionSQL: "SHOW server_version",
		readOnlyTx: true,
		dsn:        postgresURL,
	}
)

func postgresURL(props tpcc.Properties) (string, error) {
	port, err := props.GetInt(PropertyPostgresPort, PropertyPostgresPortDefault)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?%s",
		props.GetDefault(PropertyPostgresUser, PropertyPostgresUserDefault),
		props.GetDefault(PropertyPostgresPassword, PropertyPostgresPasswordDefault),
		props.GetDefault(PropertyPostgresHost, PropertyPostgresHostDefault),
		port,
		props.GetDefault(PropertyPostgresDatabase, PropertyPostgresDatabaseDefault),
		props.GetDefault(PropertyPostgresOptions, PropertyPostgresOptionsDefault)), nil
}

// PostgresDB accesses PostgreSQL through lib/pq.
type PostgresDB struct {
	*SQLDB
}

func NewPostgresDB() *PostgresDB {
	return &PostgresDB{
		SQLDB: newSQLDB(postgresDialect),
	}
}
