package store

import (
	"errors"
	"fmt"
)

var (
	ErrStoreClosed   = errors.New("store is closed")
	ErrUnknownColor  = errors.New("unknown color")
	ErrValidation    = errors.New("invalid order input")
	ErrOrderNotFound = errors.New("order not found")
	ErrColorNotFound = errors.New("color not found")
	ErrInvalidStatus = errors.New("invalid status")
	ErrBadTransition = errors.New("status transition not allowed")
	ErrNegativeStock = errors.New("stock must not be negative")
)

// InsufficientStockError carries the display name of the short color so the
// storefront can show which selection to adjust.
type InsufficientStockError struct {
	ColorCode string
	Name      string // display name in the order's language
	Available int
	Required  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: have %d, need %d", e.ColorCode, e.Available, e.Required)
}

// UserMessage maps an order-placement failure to the localized text shown to
// the customer. Unknown errors get a generic message; callers decide the
// HTTP status separately.
func UserMessage(err error, lang Language) string {
	ar := lang == LangAr
	var short *InsufficientStockError
	switch {
	case errors.Is(err, ErrStoreClosed):
		if ar {
			return "المتجر مغلق حالياً"
		}
		return "Store is currently closed"
	case errors.As(err, &short):
		if ar {
			return fmt.Sprintf("عذراً، الكمية المتوفرة من \"%s\" غير كافية حالياً.", short.Name)
		}
		return fmt.Sprintf("Sorry, insufficient stock for %q.", short.Name)
	case errors.Is(err, ErrUnknownColor), errors.Is(err, ErrValidation):
		if ar {
			return "عذراً، تعذر إتمام الطلب. يرجى مراجعة اختيارك."
		}
		return "Sorry, the order could not be completed. Please review your selection."
	}
	if ar {
		return "فشل إتمام الطلب في قاعدة البيانات"
	}
	return "Failed to save order to database"
}
