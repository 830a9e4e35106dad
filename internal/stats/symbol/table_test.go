package symbol

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/songzhibin97/stargate-stats/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookup struct {
	name  string
	count uint64
}

func collect(t *Table) ([]lookup, uint64) {
	var out []lookup
	total := t.RecentLookups(func(name string, count uint64) {
		out = append(out, lookup{name: name, count: count})
	})
	return out, total
}

func TestTable_DisabledByDefault(t *testing.T) {
	table := NewTable()
	table.Lookup("a")
	table.Lookup("b")

	lookups, total := collect(table)
	assert.Empty(t, lookups)
	assert.Equal(t, uint64(2), total)
	assert.Equal(t, uint64(0), table.RecentLookupCapacity())
}

func TestTable_OrderByCountThenName(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.SetRecentLookupCapacity(10))

	table.Lookup("c")
	table.Lookup("b")
	table.Lookup("a")
	table.Lookup("b")

	lookups, total := collect(table)
	assert.Equal(t, []lookup{{"b", 2}, {"a", 1}, {"c", 1}}, lookups)
	assert.Equal(t, uint64(4), total)
}

func TestTable_EvictsLeastRecent(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.SetRecentLookupCapacity(2))

	table.Lookup("a")
	table.Lookup("b")
	table.Lookup("a")
	table.Lookup("c") // evicts b

	lookups, _ := collect(table)
	assert.Equal(t, []lookup{{"a", 2}, {"c", 1}}, lookups)

	require.NoError(t, table.SetRecentLookupCapacity(1)) // evicts a
	lookups, _ = collect(table)
	assert.Equal(t, []lookup{{"c", 1}}, lookups)
}

func TestTable_DisablePurgesEntries(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.SetRecentLookupCapacity(100))
	table.Lookup("a")
	require.NoError(t, table.SetRecentLookupCapacity(0))

	lookups, total := collect(table)
	assert.Empty(t, lookups)
	assert.Equal(t, uint64(1), total)

	table.Lookup("b")
	lookups, _ = collect(table)
	assert.Empty(t, lookups)
}

func TestTable_ClearKeepsCapacity(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.SetRecentLookupCapacity(5))
	table.Lookup("a")
	require.NoError(t, table.ClearRecentLookups())

	lookups, total := collect(table)
	assert.Empty(t, lookups)
	assert.Equal(t, uint64(0), total)
	assert.Equal(t, uint64(5), table.RecentLookupCapacity())

	table.Lookup("a")
	lookups, _ = collect(table)
	assert.Equal(t, []lookup{{"a", 1}}, lookups)
}

func TestTable_CapacityLimit(t *testing.T) {
	table := NewTable()
	err := table.SetRecentLookupCapacity(MaxRecentLookupsCapacity + 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, stats.ErrInvalidCapacity))
	assert.Equal(t, uint64(0), table.RecentLookupCapacity())
}

func TestTable_ConcurrentAccess(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.SetRecentLookupCapacity(16))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				table.Lookup(fmt.Sprintf("name.%d", j%32))
				switch j % 50 {
				case 10:
					_ = table.SetRecentLookupCapacity(uint64(8 + i))
				case 20:
					_ = table.ClearRecentLookups()
				case 30:
					collect(table)
				}
			}
		}(i)
	}
	wg.Wait()

	lookups, _ := collect(table)
	assert.LessOrEqual(t, uint64(len(lookups)), table.RecentLookupCapacity())
}
