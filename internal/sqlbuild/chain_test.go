package sqlbuild

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dynmodel/internal/value"
)

func TestChain_ZeroValueIsEmpty(t *testing.T) {
	var c Chain
	assert.True(t, c.Empty())
	assert.Equal(t, 0, c.Len())
}

func TestChain_OrWhereOnEmptyFails(t *testing.T) {
	var c Chain
	next, err := c.OrWhere(Eq("id", value.Int(1)))

	assert.ErrorIs(t, err, ErrOrWithoutWhere)
	assert.True(t, next.Empty())
}

func TestChain_FirstTermHasNoConjunction(t *testing.T) {
	c, err := Chain{}.Where(Eq("a", value.Int(1)))
	require.NoError(t, err)
	c, err = c.Where(Eq("b", value.Int(2)))
	require.NoError(t, err)
	c, err = c.OrWhere(Eq("c", value.Int(3)))
	require.NoError(t, err)

	terms := c.Terms()
	require.Len(t, terms, 3)
	assert.Equal(t, ConjNone, terms[0].Conj)
	assert.Equal(t, ConjAnd, terms[1].Conj)
	assert.Equal(t, ConjOr, terms[2].Conj)
}

func TestChain_Immutable(t *testing.T) {
	base, err := Chain{}.Where(Eq("a", value.Int(1)))
	require.NoError(t, err)

	left, err := base.Where(Eq("b", value.Int(2)))
	require.NoError(t, err)
	right, err := base.OrWhere(Eq("c", value.Int(3)))
	require.NoError(t, err)

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, "b", left.Terms()[1].Predicate.Column)
	assert.Equal(t, "c", right.Terms()[1].Predicate.Column)
}

func TestChain_InvalidPredicateLeavesChainUnchanged(t *testing.T) {
	base, err := Chain{}.Where(Eq("a", value.Int(1)))
	require.NoError(t, err)

	next, err := base.Where(Predicate{Column: "b", Operator: "~", Value: value.Int(1)})
	assert.ErrorIs(t, err, ErrUnsupportedOperator)
	assert.Equal(t, 1, next.Len())

	_, err = base.OrWhere(Eq("drop table", value.Int(1)))
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestChain_NPredicatesGiveNDistinctOrderedPlaceholders(t *testing.T) {
	for n := 1; n <= 6; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			c, err := Chain{}.Where(Eq("col0", value.Int(0)))
			require.NoError(t, err)
			for i := 1; i < n; i++ {
				p := Eq(fmt.Sprintf("col%d", i), value.Int(int64(i)))
				if i%2 == 0 {
					c, err = c.Where(p)
				} else {
					c, err = c.OrWhere(p)
				}
				require.NoError(t, err)
			}

			stmt, err := Select("t", nil, c)
			require.NoError(t, err)

			require.Len(t, stmt.Params, n)
			seen := map[string]bool{}
			for i, p := range stmt.Params {
				assert.Equal(t, fmt.Sprintf("value%d", i), p.Name)
				assert.Equal(t, value.Int(int64(i)), p.Value, "params follow append order")
				assert.False(t, seen[p.Name], "duplicate placeholder %s", p.Name)
				seen[p.Name] = true
				assert.Contains(t, stmt.Text, fmt.Sprintf(`"col%d" = :%s`, i, p.Name))
			}
		})
	}
}

func TestChain_RecompilesWholeChain(t *testing.T) {
	c, err := Chain{}.Where(Eq("name", value.Text("Ana")))
	require.NoError(t, err)
	first, err := Select("users", nil, c)
	require.NoError(t, err)

	c, err = c.Where(Predicate{Column: "age", Operator: OpGte, Value: value.Int(18)})
	require.NoError(t, err)
	second, err := Select("users", nil, c)
	require.NoError(t, err)

	assert.Equal(t, `SELECT * FROM "users" WHERE "name" = :value0`, first.Text)
	assert.Equal(t, `SELECT * FROM "users" WHERE "name" = :value0 AND "age" >= :value1`, second.Text)
	assert.Len(t, second.Params, 2)
}
