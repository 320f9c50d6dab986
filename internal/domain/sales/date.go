package sales

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout es el formato con el que se imprimen las fechas.
const DateLayout = "2006-01-02"

// dateLayouts formatos aceptados al leer fechas de CSV o argumentos, en orden de prueba.
var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006 3:04:05 PM",
}

// ParseDate interpreta s como fecha de calendario y la normaliza a medianoche UTC.
// La hora, si viene, se descarta.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("fecha vacía")
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha no reconocida %q", s)
}

// Day trunca t a la medianoche UTC de su fecha de calendario.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate imprime la fecha con DateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
