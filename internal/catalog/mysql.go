package catalog

import (
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// NewMySQLClient opens a connection the same way the teacher's
// NewDBClient does, given the same four-field DSN shape.
func NewMySQLClient(cfg DSN) (*sqlx.DB, error) {
	return sqlx.Open("mysql", mysqlDSN(cfg))
}

func mysqlDSN(cfg DSN) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", cfg.User, cfg.Password, cfg.Addr, cfg.Port, cfg.DB)
}

// DSN is the connection value object, grounded on the teacher's DBConfig.
type DSN struct {
	User     string
	Password string
	Addr     string
	Port     string
	DB       string
}

// MySQLCatalog is a Catalog backed by a `segments` table, grounded
// directly on StorageRdbImpl's query style (sqlx.Select/Get/NamedExec).
type MySQLCatalog struct {
	db *sqlx.DB
}

func NewMySQLCatalog(db *sqlx.DB) *MySQLCatalog {
	return &MySQLCatalog{db: db}
}

func (c *MySQLCatalog) ListSegments() ([]Segment, error) {
	var segs []Segment
	if err := c.db.Select(&segs, `select id, dir, codec, fields from segments`); err != nil {
		return nil, err
	}
	return segs, nil
}

func (c *MySQLCatalog) GetSegment(id string) (Segment, error) {
	var seg Segment
	if err := c.db.Get(&seg, `select id, dir, codec, fields from segments where id = ?`, id); err != nil {
		if err == sql.ErrNoRows {
			return Segment{}, fmt.Errorf("catalog: segment %q not found", id)
		}
		return Segment{}, err
	}
	return seg, nil
}

func (c *MySQLCatalog) AddSegment(seg Segment) error {
	_, err := c.db.NamedExec(
		`insert into segments (id, dir, codec, fields) values (:id, :dir, :codec, :fields)
		on duplicate key update dir = :dir, codec = :codec, fields = :fields`,
		seg,
	)
	if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == 1062 {
		return nil
	}
	return err
}

func (c *MySQLCatalog) RemoveSegment(id string) error {
	_, err := c.db.Exec(`delete from segments where id = ?`, id)
	return err
}
