package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ReceiptType distinguishes income receipts from expense receipts
type ReceiptType string

const (
	ReceiptTypeIngreso ReceiptType = "ingreso"
	ReceiptTypeEgreso  ReceiptType = "egreso"
)

func (t ReceiptType) String() string {
	return string(t)
}

// Label is the upper-case banner text printed on the document
func (t ReceiptType) Label() string {
	return strings.ToUpper(string(t))
}

func (t ReceiptType) IsValid() bool {
	return t == ReceiptTypeIngreso || t == ReceiptTypeEgreso
}

// ParseReceiptType is case-insensitive and rejects unknown values
func ParseReceiptType(s string) (ReceiptType, error) {
	t := ReceiptType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid receipt type %q", s)
	}
	return t, nil
}

func (t ReceiptType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *ReceiptType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseReceiptType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t ReceiptType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *ReceiptType) Scan(value interface{}) error {
	if value == nil {
		*t = ReceiptTypeIngreso
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = ReceiptType(v)
	case []byte:
		*t = ReceiptType(string(v))
	}
	return nil
}
