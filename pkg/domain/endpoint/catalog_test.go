package endpoint

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	domain "github.com/rantcrypto/cmcgate/pkg/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_LookupBlockchainStatistics(t *testing.T) {
	c := Default()

	ep, ok := c.Lookup(http.MethodGet, "/v1/blockchain/statistics/latest")
	require.True(t, ok)
	assert.Equal(t, GroupBlockchain, ep.Group)
	assert.ElementsMatch(t, []string{"id", "symbol", "slug"}, ep.Params)

	_, ok = c.Lookup(http.MethodPost, "/v1/blockchain/statistics/latest")
	assert.False(t, ok)

	_, ok = c.Lookup(http.MethodGet, "/v1/blockchain/statistics/latest/")
	assert.True(t, ok, "trailing slash resolves to the same endpoint")

	_, ok = c.Lookup(http.MethodGet, "/v1/unknown")
	assert.False(t, ok)
}

func TestDefault_Invariants(t *testing.T) {
	c := Default()
	require.Greater(t, c.Len(), 0)

	for _, ep := range c.All() {
		assert.True(t, strings.HasPrefix(ep.Path, "/v"), ep.Path)
		assert.Equal(t, http.MethodGet, ep.Method, ep.Path)
		for _, group := range ep.OneOf {
			for _, p := range group {
				assert.Contains(t, ep.Params, p, "%s: one_of member %q must be an accepted param", ep.Path, p)
			}
		}
	}
}

func TestNewCatalog_RejectsDuplicates(t *testing.T) {
	ep := get(GroupKey, "/v1/key/info", nil)
	_, err := NewCatalog(ep, ep)
	assert.Error(t, err)
}

func TestCatalog_AllReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].Path = "/mutated"
	assert.NotEqual(t, "/mutated", c.All()[0].Path)
}

func TestEndpoint_Validate(t *testing.T) {
	c := Default()
	stats, _ := c.Lookup(http.MethodGet, "/v1/blockchain/statistics/latest")
	conversion, _ := c.Lookup(http.MethodGet, "/v2/tools/price-conversion")
	keyInfo, _ := c.Lookup(http.MethodGet, "/v1/key/info")

	tests := []struct {
		name    string
		ep      Endpoint
		query   string
		wantErr string
	}{
		{name: "id", ep: stats, query: "id=1"},
		{name: "bundled symbols", ep: stats, query: "symbol=BTC,ETH"},
		{name: "unknown param", ep: stats, query: "id=1&foo=bar", wantErr: `"foo" is not allowed`},
		{name: "missing identifier", ep: stats, query: "", wantErr: "at least one of [id, slug, symbol]"},
		{name: "repeated param", ep: stats, query: "id=1&id=2", wantErr: `"id" must not be repeated`},
		{name: "blank identifier", ep: stats, query: "id=", wantErr: "at least one of"},
		{name: "conversion ok", ep: conversion, query: "amount=10&symbol=BTC&convert=USD"},
		{name: "conversion without amount", ep: conversion, query: "symbol=BTC", wantErr: "[amount]"},
		{name: "key info without params", ep: keyInfo, query: ""},
		{name: "key info with params", ep: keyInfo, query: "id=1", wantErr: `"id" is not allowed`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			err = tt.ep.Validate(q)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			apiErr := domain.AsAPIError(err)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status())
			assert.Equal(t, 400, apiErr.Code)
			assert.Contains(t, apiErr.Message, tt.wantErr)
		})
	}
}
