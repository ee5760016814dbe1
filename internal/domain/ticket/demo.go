package ticket

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemoText returns the test ticket printed from the printer settings screen
func DemoText(w int, now time.Time) string {
	items := []struct {
		name  string
		qty   int
		price decimal.Decimal
	}{
		{"3LTS N4 D-F-V", 1, decimal.NewFromInt(14400)},
		{"Delivery", 1, decimal.NewFromInt(1000)},
	}

	b := NewBuilder(w)
	b.Separator().
		Center("PEDIDO").
		Center("Original").
		Separator().
		Line("ID: 3").
		Line("Fecha: " + now.Format("02/01/2006")).
		Line("Hora: " + now.Format("15:04")).
		Blank().
		Line("Telefono: 1557966469").
		Wrap("Direccion: BARBOSA 2825 entre calles ESPACIO VERDE").
		Blank().
		Line("Cajero: LUCAS").
		Line("Cadete: -").
		Blank().
		Line("DETALLE")

	total := decimal.Zero
	for _, it := range items {
		line := it.price.Mul(decimal.NewFromInt(int64(it.qty)))
		total = total.Add(line)
		b.Line(it.name).
			Row("x"+decimal.NewFromInt(int64(it.qty)).String(), "$"+Money(line))
	}

	b.Blank().
		Row("TOTAL:", "$"+Money(total)).
		Line("Paga: MP").
		Separator()
	return b.String()
}
