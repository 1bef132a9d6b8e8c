package model

import (
	"database/sql/driver"
	"fmt"

	"github.com/goccy/go-json"
)

// Custom implementation of an opaque JSON column. Upstream payloads are
// kept as they came in and never queried by the database

type JSON []byte

// MarshalJSONValue encodes any value into a JSON column value
func MarshalJSONValue(v any) (JSON, error) {
	if v == nil {
		return nil, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return JSON(b), nil
}

// Value implements the driver.Valuer interface.
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}

	return string(j), nil
}

// Scan implements the sql.Scanner interface.
func (j *JSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case string:
		*j = JSON(v)
	case []byte:
		*j = append(JSON(nil), v...)
	default:
		return fmt.Errorf("failed to scan JSON, %v", value)
	}

	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}

	return j, nil
}

func (j *JSON) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*j = nil
		return nil
	}

	*j = append((*j)[0:0], b...)
	return nil
}

// GormDataType tells gorm which column type to create
func (JSON) GormDataType() string {
	return "text"
}
