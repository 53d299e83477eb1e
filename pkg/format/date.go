package format

import (
	"fmt"
	"time"
)

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// LongDate renders "15 de marzo de 2024"
func LongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// ShortDate renders "15/03/2024"
func ShortDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// DateTime renders "15/03/2024 14:05"
func DateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}
