package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivayloh/ledgerbot/internal/domain"
)

type fakeSource struct {
	accounts []Account
	err      error
	calls    int
}

func (f *fakeSource) Accounts(ctx context.Context) ([]Account, error) {
	f.calls++
	return f.accounts, f.err
}

func TestGetCachesUntilForced(t *testing.T) {
	src := &fakeSource{accounts: []Account{
		{Ref: "rec1", Name: "Revolut Ivan", Currency: domain.CurrencyEUR},
	}}
	dir := New(src)

	entries, err := dir.Get(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{Label: "Revolut Ivan", Ref: "rec1", Currency: domain.CurrencyEUR}, entries["revolut ivan"])

	_, err = dir.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls, "cached read must not hit the source")

	_, err = dir.Get(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestRefreshReplacesNotMerges(t *testing.T) {
	src := &fakeSource{accounts: []Account{
		{Ref: "rec1", Name: "Old Account"},
		{Ref: "rec2", Name: "Kept Account"},
	}}
	dir := New(src)

	_, err := dir.Get(context.Background(), false)
	require.NoError(t, err)

	src.accounts = []Account{{Ref: "rec2", Name: "Kept Account"}}
	entries, err := dir.Refresh(context.Background())
	require.NoError(t, err)

	assert.Len(t, entries, 1)
	_, stale := entries["old account"]
	assert.False(t, stale, "refresh must drop accounts gone from the store")
}

func TestRefreshNormalizesKeysAndSkipsUnnamed(t *testing.T) {
	src := &fakeSource{accounts: []Account{
		{Ref: "rec1", Name: "DSK-Bank_Maria"},
		{Ref: "rec2", Name: ""},
	}}
	dir := New(src)

	entries, err := dir.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "rec1", entries["dsk bank maria"].Ref)
}

func TestRefreshDuplicateNamesLastWriteWins(t *testing.T) {
	src := &fakeSource{accounts: []Account{
		{Ref: "rec1", Name: "Cash"},
		{Ref: "rec2", Name: "CASH"},
	}}
	dir := New(src)

	entries, err := dir.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "rec2", entries["cash"].Ref)
}

func TestRefreshErrorKeepsCacheUnpopulated(t *testing.T) {
	src := &fakeSource{err: errors.New("store down")}
	dir := New(src)

	_, err := dir.Get(context.Background(), false)
	require.Error(t, err)

	src.err = nil
	src.accounts = []Account{{Ref: "rec1", Name: "Cash"}}
	entries, err := dir.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
