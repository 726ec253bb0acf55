package payrecord

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The period uniqueness must come from the partial index in migrations, not
// from the entity tags: a full unique index would let a CANCELLED record
// block re-running the same employee and period forever.
func TestPeriodUniquenessIgnoresCancelled(t *testing.T) {
	ddl, err := os.ReadFile("../../migrations/0001_pay_records_unique_period.sql")
	require.NoError(t, err)

	sql := string(ddl)
	assert.Contains(t, sql, "CREATE UNIQUE INDEX")
	assert.Contains(t, sql, "WHERE status <> 'CANCELLED'")

	entity := reflect.TypeOf(PayRecord{})
	for i := 0; i < entity.NumField(); i++ {
		tag := entity.Field(i).Tag.Get("gorm")
		assert.NotContains(t, strings.ToLower(tag), "uniqueindex",
			"field %s must not declare a full unique index", entity.Field(i).Name)
	}
}
