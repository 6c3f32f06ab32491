// Package notify builds the WhatsApp hand-off for confirmed orders: the
// localized message text and the wa.me deep link the customer (or the
// back office) opens to finish the conversation.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cupify/storefront/internal/store"
)

// ColorNamer resolves a colorCode to its display name; unknown codes fall
// back to the raw code.
type ColorNamer func(code string, lang store.Language) string

func MessageText(o store.Order, name ColorNamer) string {
	var items strings.Builder
	for i, it := range o.Items {
		if i > 0 {
			items.WriteString("\n")
		}
		fmt.Fprintf(&items, "• %s x%d", name(it.ColorCode, o.Language), it.Qty)
	}

	if o.Language == store.LangAr {
		preferred := "صباحاً"
		if o.Customer.PreferredTime == "Evening" {
			preferred = "مساءً"
		}
		return fmt.Sprintf(
			"*طلب جديد - Cupify*\n\nرقم الطلب: %s\n*الحجم:* %d أكواب\n\n*الألوان:*\n%s\n\n*العميل:*\n%s\n%s\n%s\n%s\nصباحاً/مساءً: %s\n\n*الإجمالي:* %d درهم",
			o.OrderCode, o.PackSize, items.String(),
			o.Customer.Name, o.Customer.Mobile, o.Customer.City, o.Customer.Address,
			preferred, o.TotalPrice)
	}

	preferred := "Morning"
	if o.Customer.PreferredTime == "Evening" {
		preferred = "Evening"
	}
	return fmt.Sprintf(
		"*New order - Cupify*\n\nOrder code: %s\n*Pack:* %d cups\n\n*Items:*\n%s\n\n*Customer:*\n%s\n%s\n%s\n%s\nPreferred: %s\n\n*Total:* %d AED",
		o.OrderCode, o.PackSize, items.String(),
		o.Customer.Name, o.Customer.Mobile, o.Customer.City, o.Customer.Address,
		preferred, o.TotalPrice)
}

// Link builds the wa.me URL for the configured store number. Non-digits are
// stripped from the number; the text is query-escaped.
func Link(whatsappNumber, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, whatsappNumber)
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(text)
}
