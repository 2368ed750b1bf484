package templates

import (
	"strconv"
	"strings"
	"time"
)

// Plan is a listing package offered in price suggestion emails.
type Plan struct {
	Name     string
	Price    string
	Duration string
	Features []string
}

var pricingPlans = map[string][]Plan{
	"residential": {
		{Name: "Starter", Price: "₹299", Duration: "7 days", Features: []string{"Basic listing", "Standard visibility", "Email support"}},
		{Name: "Professional", Price: "₹599", Duration: "15 days", Features: []string{"Featured listing", "Priority placement", "WhatsApp support", "Analytics"}},
		{Name: "Premium", Price: "₹999", Duration: "30 days", Features: []string{"Top listing", "Maximum visibility", "Dedicated support", "Advanced analytics", "Social media promotion"}},
	},
	"commercial": {
		{Name: "Business Basic", Price: "₹799", Duration: "10 days", Features: []string{"Business listing", "Commercial visibility", "Email support"}},
		{Name: "Business Pro", Price: "₹1,499", Duration: "20 days", Features: []string{"Featured commercial listing", "Priority placement", "Business support", "Market insights"}},
		{Name: "Enterprise", Price: "₹2,499", Duration: "45 days", Features: []string{"Premium commercial listing", "Maximum exposure", "Dedicated account manager", "Custom marketing"}},
	},
	"industrial": {
		{Name: "Industrial Basic", Price: "₹1,299", Duration: "15 days", Features: []string{"Industrial listing", "Sector visibility", "Technical support"}},
		{Name: "Industrial Pro", Price: "₹2,299", Duration: "30 days", Features: []string{"Featured industrial listing", "Industry networks", "Expert consultation", "Market analysis"}},
		{Name: "Industrial Elite", Price: "₹3,999", Duration: "60 days", Features: []string{"Premium industrial listing", "Maximum industry reach", "Dedicated specialist", "Custom solutions"}},
	},
}

var funcs = map[string]any{
	"plans": func(category string) []Plan {
		if p, ok := pricingPlans[category]; ok {
			return p
		}
		return pricingPlans["residential"]
	},
	"lower": strings.ToLower,
}

var loanTypes = map[string]string{
	"Home Loan":             "Home Loan",
	"Loan Against Property": "Loan Against Property",
	"Balance Transfer":      "Balance Transfer",
	"Top-up Loan":           "Top-up Loan",
	"Construction Loan":     "Construction Loan",
	"Business Loan":         "Business Loan",
	"Others":                "Loan",
}

func deriveLoanType(data map[string]string, _ time.Time) {
	loanType := strings.TrimSpace(data["loanType"])
	if loanType == "" {
		loanType = "Home Loan"
	}
	if display, ok := loanTypes[loanType]; ok {
		data["displayType"] = display
		return
	}
	data["displayType"] = loanType
}

func deriveDealType(data map[string]string, _ time.Time) {
	switch data["status"] {
	case "sold":
		data["dealType"] = "Sale"
	case "rented":
		data["dealType"] = "Rental"
	default:
		data["dealType"] = "Deal"
	}
}

func deriveInvoiceNumber(data map[string]string, now time.Time) {
	if data["invoiceNumber"] == "" {
		data["invoiceNumber"] = "#INV-" + strconv.FormatInt(now.UnixMilli(), 10)
	}
}

func derivePropertyCategory(data map[string]string, _ time.Time) {
	category := strings.ToLower(strings.TrimSpace(data["propertyType"]))
	if _, ok := pricingPlans[category]; !ok {
		category = "residential"
	}
	data["propertyCategory"] = category
}

func deriveListingTierPrices(data map[string]string, _ time.Time) {
	switch data["propertyType"] {
	case "Commercial":
		data["premiumPrice"], data["elitePrice"] = "1499", "2499"
	case "Industrial":
		data["premiumPrice"], data["elitePrice"] = "1999", "2999"
	default:
		data["premiumPrice"], data["elitePrice"] = "999", "1999"
	}
}

func deriveAccessTierPrices(data map[string]string, _ time.Time) {
	switch data["propertyType"] {
	case "Commercial":
		data["premiumPrice"], data["elitePrice"] = "799", "1499"
	case "Industrial":
		data["premiumPrice"], data["elitePrice"] = "999", "1799"
	default:
		data["premiumPrice"], data["elitePrice"] = "499", "999"
	}
}

func deriveUrgency(data map[string]string, _ time.Time) {
	switch data["urgency"] {
	case "urgent":
		data["priorityLabel"], data["contactWindow"] = "🔥 URGENT", "2 Hours"
	case "asap":
		data["priorityLabel"], data["contactWindow"] = "⚡ ASAP", "4 Hours"
	default:
		data["priorityLabel"], data["contactWindow"] = "📅 Standard", "12 Hours"
	}
}
