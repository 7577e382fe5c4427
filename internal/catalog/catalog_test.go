package catalog

import "testing"

func TestMySQLDSNFormatsUserAtHost(t *testing.T) {
	got := mysqlDSN(DSN{User: "root", Password: "secret", Addr: "127.0.0.1", Port: "3306", DB: "blacklab"})
	want := "root:secret@tcp(127.0.0.1:3306)/blacklab"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPostgresDSNFormatsKeyValuePairs(t *testing.T) {
	got := postgresDSN(DSN{User: "root", Password: "secret", Addr: "127.0.0.1", Port: "5432", DB: "blacklab"})
	want := "host=127.0.0.1 port=5432 user=root password=secret dbname=blacklab sslmode=disable"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
