package binding

import (
	"fmt"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/hhkbp2/tpcc"
	"github.com/pkg/errors"
)

const (
	PropertyMysqlHost            = "mysql.host"
	PropertyMysqlHostDefault     = "127.0.0.1"
	PropertyMysqlPort            = "mysql.port"
	PropertyMysqlPortDefault     = "3306"
	PropertyMysqlDatabase        = "mysql.db"
	PropertyMysqlDatabaseDefault = "tpcc"
	PropertyMysqlUser            = "mysql.user"
	PropertyMysqlUserDefault     = "root"
	PropertyMysqlPassword        = "mysql.password"
	PropertyMysqlPasswordDefault = ""
	PropertyMysqlOptions         = "mysql.options"
	PropertyMysqlOptionsDefault  = "charset=utf8mb4&parseTime=true"
)

var (
	mysqlDialect = &sqlDialect{
		driver:     "mysql",
		product:    tpcc.ProductMySQL,
		versionSQL: "SELECT VERSION()",
		readOnlyTx: true,
		dsn:        mysqlDSN,
	}
)

// mysqlDSN builds the data source name from the properties, validated by
// the driver.
func mysqlDSN(props tpcc.Properties) (string, error) {
	port, err := props.GetInt(PropertyMysqlPort, PropertyMysqlPortDefault)
	if err != nil {
		return "", err
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?%s",
		props.GetDefault(PropertyMysqlUser, PropertyMysqlUserDefault),
		props.GetDefault(PropertyMysqlPassword, PropertyMysqlPasswordDefault),
		net.JoinHostPort(props.GetDefault(PropertyMysqlHost, PropertyMysqlHostDefault), strconv.FormatInt(port, 10)),
		props.GetDefault(PropertyMysqlDatabase, PropertyMysqlDatabaseDefault),
		props.GetDefault(PropertyMysqlOptions, PropertyMysqlOptionsDefault))
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", errors.Wrap(err, "invalid mysql properties")
	}
	return cfg.FormatDSN(), nil
}

type MysqlDB struct {
	*SQLDB
}

func NewMysqlDB() *MysqlDB {
	return &MysqlDB{
		SQLDB: newSQLDB(mysqlDialect),
	}
}
