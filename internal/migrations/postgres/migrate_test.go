package postgres

import (
	"strings"
	"testing"
)

func TestSchema_ActiveSeatUniqueness(t *testing.T) {
	want := "ON bookings (seat_number, date) WHERE status = 'active'"
	if !strings.Contains(Schema, want) {
		t.Errorf("schema is missing the partial unique seat index %q", want)
	}
	if !strings.Contains(Schema, "CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_seat_per_day") {
		t.Errorf("seat index must be named uniq_active_seat_per_day, like the mongo index")
	}
}

func TestSchema_TablesMatchRepositories(t *testing.T) {
	for _, table := range []string{"users", "holidays", "bookings"} {
		if !strings.Contains(Schema, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Errorf("schema does not create table %s", table)
		}
	}
}
