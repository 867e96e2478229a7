package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/siherrmann/kgview/helper"
)

// Observations is an ordered list of free-text facts, stored as JSONB.
type Observations []string

// Value implements the driver.Valuer interface for database storage
func (o Observations) Value() (driver.Value, error) {
	return o.Marshal()
}

// Scan implements the sql.Scanner interface for database retrieval
func (o *Observations) Scan(value interface{}) error {
	return o.Unmarshal(value)
}

// Marshal converts Observations to JSON bytes. A nil list becomes [].
func (o Observations) Marshal() ([]byte, error) {
	if o == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(o))
}

// Unmarshal converts JSON bytes or Observations to Observations
func (o *Observations) Unmarshal(value interface{}) error {
	if value == nil {
		*o = Observations{}
		return nil
	}

	if s, ok := value.(Observations); ok {
		*o = s
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	if list == nil {
		list = []string{}
	}
	*o = list
	return nil
}
