package postgres

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The repositories and the migration DDL name columns independently, so a
// drift between them only surfaces on the first round-trip against a real
// database. These tests pin the two sides together.

func loadSchema(t *testing.T) string {
	t.Helper()
	sql, err := os.ReadFile("migrations/0001_init.up.sql")
	require.NoError(t, err)
	return string(sql)
}

// tableColumns extracts the column names of one CREATE TABLE block.
func tableColumns(t *testing.T, schema, table string) map[string]bool {
	t.Helper()
	marker := "CREATE TABLE IF NOT EXISTS " + table + " ("
	start := strings.Index(schema, marker)
	require.GreaterOrEqual(t, start, 0, "table %s not found in migration", table)

	body := schema[start+len(marker):]
	end := strings.Index(body, "\n);")
	require.GreaterOrEqual(t, end, 0, "unterminated table %s", table)

	cols := make(map[string]bool)
	for _, line := range strings.Split(body[:end], "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		// Table-level constraints are not columns.
		if fields[0] == "UNIQUE" || fields[0] == "PRIMARY" || fields[0] == "CONSTRAINT" {
			continue
		}
		cols[fields[0]] = true
	}
	return cols
}

func splitColumnList(list string) []string {
	var out []string
	for _, col := range strings.Split(list, ",") {
		if col = strings.TrimSpace(col); col != "" {
			out = append(out, col)
		}
	}
	return out
}

func assertColumnsExist(t *testing.T, schema, table, columnList string) {
	t.Helper()
	cols := tableColumns(t, schema, table)
	for _, col := range splitColumnList(columnList) {
		assert.True(t, cols[col], "%s.%s is used by the repository but missing from the migration", table, col)
	}
}

func TestRepositoryColumnsMatchSchema(t *testing.T) {
	schema := loadSchema(t)

	assertColumnsExist(t, schema, "deals", dealColumns)
	assertColumnsExist(t, schema, "financial_terms", termsColumns)
	assertColumnsExist(t, schema, "financing_plans", planColumns)
	assertColumnsExist(t, schema, "broker_tiers", brokerTierColumns)
	assertColumnsExist(t, schema, "dealer_tiers", dealerTierColumns)
	assertColumnsExist(t, schema, "commissions", commissionColumns)
}

func TestMilestoneColumnsMatchSchema(t *testing.T) {
	schema := loadSchema(t)
	assertColumnsExist(t, schema, "payment_milestones", `
		id, terms_id, milestone_type, name, description, sequence,
		amount_due, amount_paid, currency, due_date, status, payment_ids
	`)
}

func TestInstallmentColumnsMatchSchema(t *testing.T) {
	schema := loadSchema(t)
	assertColumnsExist(t, schema, "financing_installments", `
		id, plan_id, period, due_date,
		principal, interest, total, late_fee, amount_paid,
		remaining_balance, status, days_late, paid_at
	`)
}

func TestOutboxColumnsMatchSchema(t *testing.T) {
	schema := loadSchema(t)
	assertColumnsExist(t, schema, "outbox", `
		id, aggregate_id, aggregate_type, event_type, payload, created_at, published_at
	`)
}

func TestBonusColumnsMatchSchema(t *testing.T) {
	schema := loadSchema(t)
	assertColumnsExist(t, schema, "bonus_transactions", `
		id, user_id, deal_id, bonus_type, amount, currency, description, created_at
	`)
}
