package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"unicode"
)

// PaymentMethod is how a receipt was settled. Values the backend sends that
// are not listed here are kept verbatim.
type PaymentMethod string

const (
	PaymentMethodEfectivo       PaymentMethod = "efectivo"
	PaymentMethodTransferencia  PaymentMethod = "transferencia"
	PaymentMethodTarjetaDebito  PaymentMethod = "tarjeta_debito"
	PaymentMethodTarjetaCredito PaymentMethod = "tarjeta_credito"
	PaymentMethodCheque         PaymentMethod = "cheque"
	PaymentMethodMercadoPago    PaymentMethod = "mercado_pago"
	PaymentMethodOtro           PaymentMethod = "otro"
)

var paymentMethodLabels = map[PaymentMethod]string{
	PaymentMethodEfectivo:       "Efectivo",
	PaymentMethodTransferencia:  "Transferencia",
	PaymentMethodTarjetaDebito:  "Tarjeta de débito",
	PaymentMethodTarjetaCredito: "Tarjeta de crédito",
	PaymentMethodCheque:         "Cheque",
	PaymentMethodMercadoPago:    "Mercado Pago",
	PaymentMethodOtro:           "Otro",
}

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) IsKnown() bool {
	_, ok := paymentMethodLabels[m]
	return ok
}

// Label returns the capitalised display name. Unknown methods get their
// first letter upper-cased and underscores replaced by spaces.
func (m PaymentMethod) Label() string {
	if label, ok := paymentMethodLabels[m]; ok {
		return label
	}
	s := strings.TrimSpace(strings.ReplaceAll(string(m), "_", " "))
	if s == "" {
		return ""
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*m = PaymentMethod(strings.ToLower(strings.TrimSpace(str)))
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*m = PaymentMethod(v)
	case []byte:
		*m = PaymentMethod(string(v))
	}
	return nil
}
