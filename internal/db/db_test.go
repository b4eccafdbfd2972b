package db

import (
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	tables := []string{
		"companies", "company_benchmarks", "measure_assignments",
		"assignment_steps", "activity_log",
	}

	for _, table := range tables {
		var count int
		err := d.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Running migrate again should not fail.
	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bench.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer d.Close()

	if d.Path() != path {
		t.Errorf("Path() = %q, want %q", d.Path(), path)
	}
}

func TestUrgencyConstraint(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	if _, err := d.Exec(`INSERT INTO companies (id, name) VALUES ('c', 'Acme')`); err != nil {
		t.Fatalf("inserting company: %v", err)
	}
	_, err = d.Exec(`INSERT INTO measure_assignments (id, company_id, name, urgency) VALUES ('a', 'c', 'n', 7)`)
	if err == nil {
		t.Error("expected urgency check constraint to reject 7")
	}
}

func TestAssignmentCompanyForeignKey(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	_, err = d.Exec(`INSERT INTO measure_assignments (id, company_id, name) VALUES ('a', 'ghost', 'n')`)
	if err == nil {
		t.Fatal("expected an assignment for an unknown company to be rejected")
	}

	if _, err := d.Exec(`INSERT INTO companies (id, name) VALUES ('c', 'Acme')`); err != nil {
		t.Fatalf("inserting company: %v", err)
	}
	if _, err := d.Exec(`INSERT INTO measure_assignments (id, company_id, name) VALUES ('a', 'c', 'n')`); err != nil {
		t.Fatalf("inserting assignment: %v", err)
	}
	if _, err := d.Exec(`DELETE FROM companies WHERE id = 'c'`); err != nil {
		t.Fatalf("deleting company: %v", err)
	}
	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM measure_assignments`).Scan(&n); err != nil {
		t.Fatalf("counting: %v", err)
	}
	if n != 0 {
		t.Errorf("expected assignments to be deleted with their company, got %d", n)
	}
}
