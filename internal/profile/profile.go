// Package profile describes the destination entity written by the loader.
package profile

import (
	"errors"
	"fmt"
	"strings"

	"profileload/internal/record"
)

// Attributes lists the Profile attributes in statement order. Every backend
// binds exactly these names, in this order.
var Attributes = []string{
	"name",
	"street_address",
	"district",
	"postal_code",
	"address_locality",
	"region",
	"phone",
	"mobile",
	"website",
	"email",
}

// ErrMissingAttribute is matched (errors.Is) by MissingAttributeError.
var ErrMissingAttribute = errors.New("missing attribute")

// MissingAttributeError names the required attributes a canonical record did
// not supply.
type MissingAttributeError struct {
	Line    int
	Missing []string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingAttribute, strings.Join(e.Missing, ", "))
}

// Is reports whether target is ErrMissingAttribute.
func (e *MissingAttributeError) Is(target error) bool { return target == ErrMissingAttribute }

// Profile is a single destination entity. All fields are required; an empty
// string is a valid value.
type Profile struct {
	Name            string `db:"name"`
	StreetAddress   string `db:"street_address"`
	District        string `db:"district"`
	PostalCode      string `db:"postal_code"`
	AddressLocality string `db:"address_locality"`
	Region          string `db:"region"`
	Phone           string `db:"phone"`
	Mobile          string `db:"mobile"`
	Website         string `db:"website"`
	Email           string `db:"email"`
}

// FromCanonical maps a canonicalised record onto a Profile. It fails with a
// *MissingAttributeError when any of Attributes is absent from rec.
func FromCanonical(rec record.Record) (Profile, error) {
	var missing []string
	get := func(attr string) string {
		v, ok := rec.Get(attr)
		if !ok {
			missing = append(missing, attr)
		}
		return v
	}

	p := Profile{
		Name:            get("name"),
		StreetAddress:   get("street_address"),
		District:        get("district"),
		PostalCode:      get("postal_code"),
		AddressLocality: get("address_locality"),
		Region:          get("region"),
		Phone:           get("phone"),
		Mobile:          get("mobile"),
		Website:         get("website"),
		Email:           get("email"),
	}
	if len(missing) > 0 {
		return Profile{}, &MissingAttributeError{Line: rec.Line, Missing: missing}
	}
	return p, nil
}

// Values returns the attribute values in Attributes order.
func (p Profile) Values() []string {
	return []string{
		p.Name,
		p.StreetAddress,
		p.District,
		p.PostalCode,
		p.AddressLocality,
		p.Region,
		p.Phone,
		p.Mobile,
		p.Website,
		p.Email,
	}
}

// Params returns the attribute values keyed by attribute name, for drivers
// that bind parameters by name.
func (p Profile) Params() map[string]any {
	vals := p.Values()
	out := make(map[string]any, len(Attributes))
	for i, a := range Attributes {
		out[a] = vals[i]
	}
	return out
}
