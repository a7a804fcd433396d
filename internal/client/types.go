// ABOUTME: Shared wire types used across resource services
// ABOUTME: Decimal amounts and the user identity returned by auth endpoints

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Decimal carries a backend decimal value. The backend serializes decimals as
// JSON strings ("12.50") but some aggregate endpoints emit plain numbers.
type Decimal string

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Decimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decimal: %w", err)
	}
	*d = Decimal(n.String())
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	if d == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

// Float returns the numeric value, or 0 if unset or malformed.
func (d Decimal) Float() float64 {
	f, err := strconv.ParseFloat(string(d), 64)
	if err != nil {
		return 0
	}
	return f
}

// String formats with two decimal places
func (d Decimal) String() string {
	if d == "" {
		return "-"
	}
	return strconv.FormatFloat(d.Float(), 'f', 2, 64)
}

// User is the identity returned by /auth/user/ and embedded in chat messages.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}
