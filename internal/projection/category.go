package projection

import (
	"strings"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
)

const (
	IconShoppingCart = "shopping-cart"
	IconCoffee       = "coffee"
	IconZap          = "zap"
	IconWallet       = "wallet"
)

// categoryNames is the closed set offered when adding a spending.
var categoryNames = []string{
	"Food",
	"Transport",
	"Shopping",
	"Entertainment",
	"Healthcare",
	"Education",
	"Personal Care",
	"Miscellaneous",
	"Bills",
	"Travel",
}

var categoryIcons = map[string]string{
	"shopping":  IconShoppingCart,
	"food":      IconCoffee,
	"transport": IconZap,
}

// CategoryIcon is total: any category without its own icon gets the wallet.
func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[strings.ToLower(strings.TrimSpace(category))]; ok {
		return icon
	}
	return IconWallet
}

func Categories() []dto.CategoryOption {
	out := make([]dto.CategoryOption, 0, len(categoryNames))
	for _, name := range categoryNames {
		out = append(out, dto.CategoryOption{Name: name, Icon: CategoryIcon(name)})
	}
	return out
}

// IsCategory reports whether name is one of the offered categories.
func IsCategory(name string) bool {
	for _, c := range categoryNames {
		if strings.EqualFold(c, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}
