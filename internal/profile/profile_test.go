package profile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profileload/internal/record"
)

func canonical(line int, kv map[string]string) record.Record {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	return record.Record{Line: line, Keys: keys, Values: kv}
}

func full() map[string]string {
	return map[string]string{
		"name":             "Acme",
		"street_address":   "1 Main St",
		"district":         "Old Town",
		"postal_code":      "11000",
		"address_locality": "Prague",
		"region":           "Praha",
		"phone":            "+420 111",
		"mobile":           "+420 222",
		"website":          "https://acme.example",
		"email":            "info@acme.example",
	}
}

func TestFromCanonical(t *testing.T) {
	t.Parallel()

	p, err := FromCanonical(canonical(2, full()))
	require.NoError(t, err)
	assert.Equal(t, "Acme", p.Name)
	assert.Equal(t, "1 Main St", p.StreetAddress)
	assert.Equal(t, "info@acme.example", p.Email)
	assert.Len(t, p.Values(), len(Attributes))

	params := p.Params()
	for i, a := range Attributes {
		assert.Equal(t, p.Values()[i], params[a], a)
	}
}

func TestFromCanonicalEmptyValueIsPresent(t *testing.T) {
	t.Parallel()

	kv := full()
	kv["email"] = ""
	p, err := FromCanonical(canonical(3, kv))
	require.NoError(t, err)
	assert.Equal(t, "", p.Email)
}

func TestFromCanonicalExtraKeysIgnored(t *testing.T) {
	t.Parallel()

	kv := full()
	kv["fax"] = "n/a"
	_, err := FromCanonical(canonical(3, kv))
	require.NoError(t, err)
}

func TestFromCanonicalMissing(t *testing.T) {
	t.Parallel()

	kv := full()
	delete(kv, "website")
	delete(kv, "phone")

	_, err := FromCanonical(canonical(7, kv))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingAttribute))

	var mae *MissingAttributeError
	require.ErrorAs(t, err, &mae)
	assert.Equal(t, 7, mae.Line)
	assert.Equal(t, []string{"phone", "website"}, mae.Missing)
	assert.Contains(t, err.Error(), "phone, website")
}

func TestAttributesOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"name", "street_address", "district", "postal_code", "address_locality",
		"region", "phone", "mobile", "website", "email",
	}, Attributes)
}
