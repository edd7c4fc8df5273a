package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Name", "name"},
		{"Street Address", "street_address"},
		{"Postal Code", "postal_code"},
		{"ADDRESS LOCALITY", "address_locality"},
		{"already_canonical", "already_canonical"},
		{"two  spaces", "two__spaces"},
		{" leading", "_leading"},
		{"", ""},
		{"Čárka Ulice", "čárka_ulice"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, CanonicalName(tc.in))
		})
	}
}

func TestCanonicalNameIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Name", "Street Address", "E Mail", "MiXeD CaSe  Header", "tab\there", "ΣΊΣΥΦΟΣ Name", "",
	}
	for _, in := range inputs {
		once := CanonicalName(in)
		assert.Equal(t, once, CanonicalName(once), "input %q", in)
	}
}

func TestCanonicalizeHeaderScenario(t *testing.T) {
	t.Parallel()

	header := []string{
		"Name", "Street Address", "District", "Postal Code", "Address Locality",
		"Region", "Phone", "Mobile", "Website", "Email",
	}
	cells := []string{
		"Acme", "1 Main St", "Old Town", "11000", "Prague",
		"Praha", "+420 1", "+420 2", "acme.example", "info@acme.example",
	}
	rec := New(2, header, cells)
	got := Canonicalize(rec)

	require.Equal(t, []string{
		"name", "street_address", "district", "postal_code", "address_locality",
		"region", "phone", "mobile", "website", "email",
	}, got.Keys)
	assert.Equal(t, 2, got.Line)
	for i, h := range header {
		v, ok := got.Get(CanonicalName(h))
		require.True(t, ok, h)
		assert.Equal(t, cells[i], v)
	}
	// Source record is untouched.
	_, ok := rec.Get("name")
	assert.False(t, ok)
}

func TestCanonicalizePreservesValuesVerbatim(t *testing.T) {
	t.Parallel()

	rec := New(5, []string{"Email"}, []string{"  MixedCase@Example.COM "})
	got := Canonicalize(rec)
	v, _ := got.Get("email")
	assert.Equal(t, "  MixedCase@Example.COM ", v)
}

func TestCanonicalizeCollisionLaterWins(t *testing.T) {
	t.Parallel()

	rec := New(2, []string{"Phone", "phone"}, []string{"first", "second"})
	got := Canonicalize(rec)
	assert.Equal(t, []string{"phone"}, got.Keys)
	v, _ := got.Get("phone")
	assert.Equal(t, "second", v)
}
