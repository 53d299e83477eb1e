package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ReceiptStatus is the lifecycle state of a receipt. The only transition is
// activo -> anulado, and anulado is terminal.
type ReceiptStatus string

const (
	ReceiptStatusActivo  ReceiptStatus = "activo"
	ReceiptStatusAnulado ReceiptStatus = "anulado"
)

func (s ReceiptStatus) String() string {
	return string(s)
}

// Label is the badge text printed on the document
func (s ReceiptStatus) Label() string {
	return strings.ToUpper(string(s))
}

func (s ReceiptStatus) IsValid() bool {
	return s == ReceiptStatusActivo || s == ReceiptStatusAnulado
}

func (s ReceiptStatus) IsCancelled() bool {
	return s == ReceiptStatusAnulado
}

// ParseReceiptStatus is case-insensitive and rejects unknown values
func ParseReceiptStatus(str string) (ReceiptStatus, error) {
	s := ReceiptStatus(strings.ToLower(strings.TrimSpace(str)))
	if !s.IsValid() {
		return "", fmt.Errorf("invalid receipt status %q", str)
	}
	return s, nil
}

func (s ReceiptStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *ReceiptStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseReceiptStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s ReceiptStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *ReceiptStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ReceiptStatusActivo
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = ReceiptStatus(v)
	case []byte:
		*s = ReceiptStatus(string(v))
	}
	return nil
}
