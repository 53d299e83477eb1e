package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// PriceList selects which of the two product price tiers a draft uses
type PriceList int

const (
	PriceListDistributor PriceList = 1
	PriceListRetail      PriceList = 2
)

func (p PriceList) String() string {
	switch p {
	case PriceListDistributor:
		return "Distributor"
	case PriceListRetail:
		return "Retail"
	default:
		return "Unknown"
	}
}

// IsValid reports whether p is one of the two known price lists
func (p PriceList) IsValid() bool {
	return p == PriceListDistributor || p == PriceListRetail
}

// ParsePriceList accepts "1"/"2" or the list names
func ParsePriceList(s string) (PriceList, error) {
	switch s {
	case "1", "Distributor", "distributor":
		return PriceListDistributor, nil
	case "2", "Retail", "retail":
		return PriceListRetail, nil
	}
	if n, err := strconv.Atoi(s); err == nil && PriceList(n).IsValid() {
		return PriceList(n), nil
	}
	return 0, fmt.Errorf("invalid price list %q", s)
}

func (p PriceList) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(p))
}

func (p *PriceList) UnmarshalJSON(data []byte) error {
	var i int
	if err := json.Unmarshal(data, &i); err != nil {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		parsed, err := ParsePriceList(str)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}
	if !PriceList(i).IsValid() {
		return fmt.Errorf("invalid price list %d", i)
	}
	*p = PriceList(i)
	return nil
}

func (p PriceList) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *PriceList) Scan(value interface{}) error {
	if value == nil {
		*p = PriceListDistributor
		return nil
	}
	switch v := value.(type) {
	case int64:
		*p = PriceList(v)
	case int:
		*p = PriceList(v)
	}
	return nil
}
