package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/jmoiron/sqlx"
)

// NewPostgresClient opens a connection using the same DSN shape as
// NewMySQLClient, translated to libpq's connection-string form.
func NewPostgresClient(cfg DSN) (*sqlx.DB, error) {
	return sqlx.Open("postgres", postgresDSN(cfg))
}

func postgresDSN(cfg DSN) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Addr, cfg.Port, cfg.User, cfg.Password, cfg.DB)
}

// PostgresCatalog is the second Catalog backend (from the
// Distributed-Search-Analytics-Platform example's lib/pq usage),
// interchangeable with MySQLCatalog the way the teacher's
// StorageRdbImpl and StorageRdbCompressedImpl are interchangeable
// Storage backends behind one interface.
type PostgresCatalog struct {
	db *sqlx.DB
}

func NewPostgresCatalog(db *sqlx.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

func (c *PostgresCatalog) ListSegments() ([]Segment, error) {
	var segs []Segment
	if err := c.db.Select(&segs, `select id, dir, codec, fields from segments`); err != nil {
		return nil, err
	}
	return segs, nil
}

func (c *PostgresCatalog) GetSegment(id string) (Segment, error) {
	var seg Segment
	if err := c.db.Get(&seg, `select id, dir, codec, fields from segments where id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return Segment{}, fmt.Errorf("catalog: segment %q not found", id)
		}
		return Segment{}, err
	}
	return seg, nil
}

func (c *PostgresCatalog) AddSegment(seg Segment) error {
	_, err := c.db.NamedExec(
		`insert into segments (id, dir, codec, fields) values (:id, :dir, :codec, :fields)
		on conflict (id) do update set dir = :dir, codec = :codec, fields = :fields`,
		seg,
	)
	return err
}

func (c *PostgresCatalog) RemoveSegment(id string) error {
	_, err := c.db.Exec(`delete from segments where id = $1`, id)
	return err
}
