package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// DeliveryAddress is the shipping destination frozen onto an order. It is
// persisted as JSONB so a later edit to the member's saved addresses never
// rewrites history.
type DeliveryAddress struct {
	RecipientName string  `json:"recipient_name"`
	MobileNumber  string  `json:"mobile_number"`
	StreetAddress string  `json:"street_address"`
	Apartment     *string `json:"apartment,omitempty"`
	City          string  `json:"city"`
	PostalCode    string  `json:"postal_code"`
}

// FirstMissingField reports the first required field that is blank, checked
// in a fixed order so clients always see the same complaint for the same
// payload.
func (a DeliveryAddress) FirstMissingField() (string, bool) {
	checks := []struct {
		name  string
		value string
	}{
		{"recipient_name", a.RecipientName},
		{"mobile_number", a.MobileNumber},
		{"street_address", a.StreetAddress},
		{"city", a.City},
		{"postal_code", a.PostalCode},
	}
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			return c.name, true
		}
	}
	return "", false
}

// Validate returns an error naming the first missing required field.
func (a DeliveryAddress) Validate() error {
	if field, missing := a.FirstMissingField(); missing {
		return fmt.Errorf("delivery address: missing %s", field)
	}
	return nil
}

// Value serializes the address to JSON.
func (a DeliveryAddress) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan decodes JSONB into the address struct.
func (a *DeliveryAddress) Scan(value interface{}) error {
	if value == nil {
		*a = DeliveryAddress{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, a)
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
