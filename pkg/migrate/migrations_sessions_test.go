package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHelpSessionsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_help_sessions.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS help_sessions",
		"CHECK (requester_id <> helper_id)",
		"CHECK ((request_id IS NULL) <> (offer_id IS NULL))",
		"ux_help_sessions_active_offer",
		"ux_help_sessions_active_request",
		"DROP TABLE IF EXISTS help_sessions",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestNotificationsMigrationContainsUnreadIndex(t *testing.T) {
	content := readMigration(t, "*_create_notifications.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS notifications",
		"read_at TIMESTAMPTZ",
		"WHERE read_at IS NULL",
		"DROP TABLE IF EXISTS notifications",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOutboxMigrationMatchesEmitDedupeIndex(t *testing.T) {
	content := readMigration(t, "*_create_outbox.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS outbox_events",
		"ux_outbox_events_event_aggregate",
		"CREATE TABLE IF NOT EXISTS outbox_dlq",
		"'session_matched', 'session_finalized', 'sos_raised'",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
