package sssom

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novonordisk-research/OBDM-manuscript/errors"
)

func newTestMinter(t *testing.T) *Minter {
	t.Helper()
	m := newTestMapping(t)
	minter, err := NewMinter(m, "chemistry", "07")
	require.NoError(t, err)
	return minter
}

func TestNewMinterRequiresDomainOrCode(t *testing.T) {
	m := newTestMapping(t)
	_, err := NewMinter(m, "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestNewMinterResolvesFromPreamble(t *testing.T) {
	preamble := map[string]any{
		"curie_map":    map[string]any{"ex": "http://example.org/"},
		"domain_codes": map[string]any{"chemistry": "07"},
	}

	m, err := New(Options{Preamble: preamble})
	require.NoError(t, err)
	byDomain, err := NewMinter(m, "chemistry", "")
	require.NoError(t, err)
	assert.Equal(t, "07", byDomain.DomainCode())

	m, err = New(Options{Preamble: preamble})
	require.NoError(t, err)
	byCode, err := NewMinter(m, "", "7")
	require.NoError(t, err)
	assert.Equal(t, "chemistry", byCode.Domain())

	// an unregistered code cannot stand alone
	m, err = New(Options{Preamble: map[string]any{}})
	require.NoError(t, err)
	_, err = NewMinter(m, "", "42")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotRegistered))
}

func TestNewMinterConflictingPairIsFatal(t *testing.T) {
	m, err := New(Options{Preamble: map[string]any{
		"domain_codes": map[string]any{"chemistry": "07"},
	}})
	require.NoError(t, err)

	_, err = NewMinter(m, "chemistry", "08")
	require.Error(t, err)
	assert.True(t, errors.IsDomainConflict(err))
}

func TestMinterRegistersInternalPrefix(t *testing.T) {
	minter := newTestMinter(t)
	assert.True(t, minter.Converter().HasPrefix("NN"))
}

func TestNextSerialStableUntilCommit(t *testing.T) {
	minter := newTestMinter(t)

	first, err := minter.NextSerial()
	require.NoError(t, err)
	second, err := minter.NextSerial()
	require.NoError(t, err)
	assert.Equal(t, "000001", first)
	assert.Equal(t, first, second, "uncommitted candidates must be stable")
}

func TestNextSerialSkipsInUse(t *testing.T) {
	m := newTestMapping(t)
	require.NoError(t, m.AddPrefix("NN", "https://ontology.novonordisk.com/"))
	require.NoError(t, m.Set("ex:1", "NN:07000001"))
	require.NoError(t, m.Set("ex:2", "NN:07000002"))

	minter, err := NewMinter(m, "chemistry", "07")
	require.NoError(t, err)

	serial, err := minter.NextSerial()
	require.NoError(t, err)
	assert.Equal(t, "000003", serial)
}

func TestGetOrMint(t *testing.T) {
	minter := newTestMinter(t)

	minted, err := minter.GetOrMint("ex:1")
	require.NoError(t, err)
	assert.Equal(t, "NN:07000001", minted)

	// idempotent for the same key, one counter advance
	again, err := minter.GetOrMint("ex:1")
	require.NoError(t, err)
	assert.Equal(t, minted, again)

	next, err := minter.GetOrMint("ex:2")
	require.NoError(t, err)
	assert.Equal(t, "NN:07000002", next)

	uri, err := minter.GetOrMintURI("ex:1")
	require.NoError(t, err)
	assert.Equal(t, "https://ontology.novonordisk.com/07000001", uri)
}

func TestGetOrMintNeverReturnsInUse(t *testing.T) {
	m := newTestMapping(t)
	require.NoError(t, m.AddPrefix("NN", "https://ontology.novonordisk.com/"))
	require.NoError(t, m.Set("ex:1", "NN:07000001"))

	minter, err := NewMinter(m, "chemistry", "07")
	require.NoError(t, err)

	minted, err := minter.GetOrMint("ex:2")
	require.NoError(t, err)
	assert.Equal(t, "NN:07000002", minted)
}

func TestGetOrMintUnknownPrefixPropagates(t *testing.T) {
	minter := newTestMinter(t)
	_, err := minter.GetOrMint("mystery:1")
	require.Error(t, err)
	assert.True(t, errors.IsUnknownPrefix(err))
}

func TestMintCeiling(t *testing.T) {
	minter := newTestMinter(t)
	minter.next = mintCeiling - 1
	minter.inUse[minter.formatInternalURI(mintCeiling-1)] = struct{}{}

	_, err := minter.NextSerial()
	require.Error(t, err)
	var ceiling *errors.MintCeilingError
	assert.True(t, errors.As(err, &ceiling))
}

func TestMinterSaveRoundTripsDomainCodes(t *testing.T) {
	minter := newTestMinter(t)
	_, err := minter.GetOrMint("ex:1")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, minter.Save(&buf))
	saved := buf.String()
	assert.Contains(t, saved, "#domain_codes:")
	assert.Contains(t, saved, "chemistry")

	reloaded, err := Load(strings.NewReader(saved), LoadOptions{})
	require.NoError(t, err)
	reminter, err := NewMinter(reloaded, "chemistry", "")
	require.NoError(t, err)
	assert.Equal(t, "07", reminter.DomainCode())

	// the persisted assignment survives the round trip
	got, err := reminter.GetOrMint("ex:1")
	require.NoError(t, err)
	assert.Equal(t, "NN:07000001", got)

	// and the in-use snapshot prevents re-allocation of its serial
	next, err := reminter.GetOrMint("ex:2")
	require.NoError(t, err)
	assert.Equal(t, "NN:07000002", next)
}
