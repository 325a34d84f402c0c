package fields_test

import (
	"testing"

	"github.com/aretw0/parley/pkg/adapters/fields"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type merchant struct {
	Gold     int     `mapstructure:"gold"`
	Mood     float64 `mapstructure:"mood"`
	Hostile  bool
	Title    string
	internal int
}

func TestAccessor_Get(t *testing.T) {
	m := &merchant{Gold: 12, Mood: 0.5, Hostile: true, Title: "Trader", internal: 3}
	a := fields.New()

	gold, err := a.GetInt(m, "gold")
	require.NoError(t, err)
	assert.Equal(t, 12, gold)

	mood, err := a.GetFloat(m, "mood")
	require.NoError(t, err)
	assert.Equal(t, 0.5, mood)

	hostile, err := a.GetBool(m, "hostile")
	require.NoError(t, err)
	assert.True(t, hostile)

	title, err := a.GetString(m, "Title")
	require.NoError(t, err)
	assert.Equal(t, "Trader", title)

	asFloat, err := a.GetFloat(m, "gold")
	require.NoError(t, err)
	assert.Equal(t, 12.0, asFloat)
}

func TestAccessor_GetErrors(t *testing.T) {
	a := fields.New()
	m := &merchant{}

	_, err := a.GetInt(m, "missing")
	assert.ErrorIs(t, err, fields.ErrUnknownVariable)

	_, err = a.GetInt(m, "internal")
	assert.ErrorIs(t, err, fields.ErrUnknownVariable)

	_, err = a.GetBool(m, "gold")
	assert.Error(t, err)

	_, err = a.GetInt(42, "gold")
	assert.Error(t, err)

	var nilMerchant *merchant
	_, err = a.GetInt(nilMerchant, "gold")
	assert.Error(t, err)
}

func TestAccessor_Set(t *testing.T) {
	a := fields.New()
	m := &merchant{}

	require.NoError(t, a.Set(m, "gold", 30))
	require.NoError(t, a.Set(m, "mood", 2))
	require.NoError(t, a.Set(m, "Hostile", true))
	require.NoError(t, a.Set(m, "title", "Smuggler"))

	assert.Equal(t, 30, m.Gold)
	assert.Equal(t, 2.0, m.Mood)
	assert.True(t, m.Hostile)
	assert.Equal(t, "Smuggler", m.Title)
}

func TestAccessor_SetErrors(t *testing.T) {
	a := fields.New()

	err := a.Set(&merchant{}, "missing", 1)
	assert.ErrorIs(t, err, fields.ErrUnknownVariable)

	err = a.Set(merchant{}, "gold", 1)
	assert.Error(t, err, "non-pointer targets cannot be written")
}
