package services

import (
	"fmt"
	"strings"
	"time"

	"frotaBack/internal/models"
	"frotaBack/internal/timeutil"
)

// RenderTemplate substitutes the placeholder tokens of a reminder template
// with payment and client fields. Unknown tokens are left untouched.
//
// Supported tokens: {nome}, {descricao}, {valor}, {vencimento},
// {link_pagamento}, {codigo_pix}.
func RenderTemplate(tpl string, p models.Payment, c models.Client) string {
	r := strings.NewReplacer(
		"{nome}", c.Name,
		"{descricao}", p.Description,
		"{valor}", FormatAmount(p.Amount),
		"{vencimento}", FormatDueDate(p.DueDate),
		"{link_pagamento}", p.PaymentURL,
		"{codigo_pix}", p.PixCode,
	)
	return r.Replace(tpl)
}

// FormatAmount renders a currency value in pt-BR style: R$ 1.234,56.
func FormatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	cents := int64(v*100 + 0.5)
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), frac)
}

// FormatDueDate converts the stored 2006-01-02 date to the 02/01/2006 form
// used in messages. Malformed input is returned as-is.
func FormatDueDate(dueDate string) string {
	t, err := time.ParseInLocation("2006-01-02", dueDate, timeutil.Location())
	if err != nil {
		return dueDate
	}
	return t.Format("02/01/2006")
}
