package location

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	loc, err := Parse("/cosmoshub/staking?denom=uatom&gasPrice=0.1")
	require.NoError(t, err)

	assert.Equal(t, "/cosmoshub/staking", loc.Path())
	assert.Equal(t, "uatom", loc.Query().Get("denom"))
	assert.Equal(t, "0.1", loc.Query().Get("gasPrice"))
}

func TestLocation_QueryIsCopy(t *testing.T) {
	loc := New("/", "denom=uatom")
	q := loc.Query()
	q.Set("denom", "changed")

	assert.Equal(t, "uatom", loc.Query().Get("denom"))
}

func TestLocation_ReplaceAndString(t *testing.T) {
	loc := New("", "")
	assert.Equal(t, "/", loc.String())

	loc.Replace("/osmosis", url.Values{"denom": {"uosmo"}})
	assert.Equal(t, "/osmosis?denom=uosmo", loc.String())

	loc.Replace("/", nil)
	assert.Equal(t, "/", loc.String())
	assert.Empty(t, loc.Query())
}
