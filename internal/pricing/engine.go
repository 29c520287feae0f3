package pricing

import (
	"strconv"
	"strings"
	"time"
)

type ServiceType string

const (
	ServiceWriting      ServiceType = "writing"
	ServiceEditing      ServiceType = "editing"
	ServicePresentation ServiceType = "presentation"
)

const (
	TierSmartSaver   = "Smart Saver"
	TierValuePro     = "Value Pro"
	TierPremiumSaver = "Premium Saver"
)

const (
	weekendDiscountPercentage = 5
	weekendTimeRemaining      = "Ends Monday at midnight"
	weekendMessage            = "Weekend special: extra 5% off"
)

// Deadlines lists the supported deadline keys (days), longest first.
var Deadlines = []string{"14", "10", "7", "5", "3", "2", "1"}

var deadlineMultipliers = map[string]float64{
	"14": 0.85,
	"10": 0.90,
	"7":  1.00,
	"5":  1.05,
	"3":  1.10,
	"2":  1.20,
	"1":  1.30,
}

var rushFeePercentages = map[string]int{
	"1": 30,
	"2": 20,
	"3": 15,
}

type Input struct {
	ServiceType  ServiceType `json:"serviceType"`
	Pages        int         `json:"pages"`
	Deadline     string      `json:"deadline"`
	DocumentType string      `json:"documentType"`
}

// Quote is the priced result. Nullable hints are pointers.
type Quote struct {
	BasePrice          float64 `json:"basePrice"`
	TotalPrice         float64 `json:"totalPrice"`
	Savings            float64 `json:"savings"`
	PricePerPage       float64 `json:"pricePerPage"`
	DiscountPercentage int     `json:"discountPercentage"`
	DiscountTier       *string `json:"discountTier"`

	RushFee           float64 `json:"rushFee"`
	RushFeePercentage int     `json:"rushFeePercentage"`
	IsRushOrder       bool    `json:"isRushOrder"`

	CompetitorPrice   float64 `json:"competitorPrice"`
	CompetitorSavings float64 `json:"competitorSavings"`

	UrgencyDiscount float64 `json:"urgencyDiscount"`
	UrgencyMessage  *string `json:"urgencyMessage"`
	TimeRemaining   *string `json:"timeRemaining"`

	NextDiscountAt         *int `json:"nextDiscountAt"`
	NextDiscountPercentage *int `json:"nextDiscountPercentage"`
}

// Compute prices in. It never fails: missing pages or deadline give the
// zero quote, unknown enum values fall back to defaults. now is only used
// for the weekend promotion.
func Compute(in Input, now time.Time) Quote {
	deadline := strings.TrimSpace(in.Deadline)
	if in.Pages <= 0 || deadline == "" {
		return Quote{}
	}
	pages := float64(in.Pages)

	rate := BaseRate(in.ServiceType) * documentPremium(in.ServiceType, in.DocumentType)

	multiplier, ok := deadlineMultipliers[deadline]
	if !ok {
		multiplier = 1.0
	}
	adjustedRate := rate * multiplier

	pct, tier := bulkDiscount(in.ServiceType, in.Pages)
	nextAt, nextPct := nextTier(in.ServiceType, in.Pages)

	rushPct := rushFeePercentages[deadline]

	subtotal := adjustedRate * pages * (1 - float64(pct)/100)
	rushFee := subtotal * float64(rushPct) / 100

	var urgency float64
	var message, remaining *string
	if isWeekend(now) && in.Pages >= weekendMinimumPages(in.ServiceType) {
		urgency = subtotal * weekendDiscountPercentage / 100
		message = strPtr(weekendMessage)
		remaining = strPtr(weekendTimeRemaining)
	}

	total := subtotal + rushFee - urgency
	base := rate * pages

	// Display figure: goes negative when the rush surcharge outweighs the
	// bulk discount.
	savings := base - total + urgency

	competitor := base * competitorMultiplier(in.ServiceType)

	q := Quote{
		BasePrice:          Round2(base),
		TotalPrice:         Round2(total),
		Savings:            Round2(savings),
		PricePerPage:       Round2(total / pages),
		DiscountPercentage: pct,
		RushFee:            Round2(rushFee),
		RushFeePercentage:  rushPct,
		IsRushOrder:        isRush(deadline),
		CompetitorPrice:    Round2(competitor),
		CompetitorSavings:  Round2(competitor - total),
		UrgencyDiscount:    Round2(urgency),
		UrgencyMessage:     message,
		TimeRemaining:      remaining,
		NextDiscountAt:     nextAt,
	}
	q.NextDiscountPercentage = nextPct
	if tier != "" {
		q.DiscountTier = strPtr(tier)
	}
	return q
}

func BaseRate(s ServiceType) float64 {
	switch s {
	case ServiceWriting:
		return 14
	case ServiceEditing:
		return 9
	case ServicePresentation:
		return 10
	default:
		return 14
	}
}

func documentPremium(s ServiceType, documentType string) float64 {
	switch strings.ToLower(strings.TrimSpace(documentType)) {
	case "dissertation", "thesis":
		return 1.3
	case "pitch_deck":
		if s == ServicePresentation {
			return 1.2
		}
	}
	return 1.0
}

func bulkDiscount(s ServiceType, pages int) (int, string) {
	if s == ServicePresentation {
		switch {
		case pages >= 20:
			return 20, TierPremiumSaver
		case pages >= 15:
			return 15, TierValuePro
		case pages >= 10:
			return 10, TierSmartSaver
		}
		return 0, ""
	}
	switch {
	case pages >= 15:
		return 20, TierPremiumSaver
	case pages >= 10:
		return 15, TierValuePro
	case pages >= 5:
		return 10, TierSmartSaver
	}
	return 0, ""
}

// Presentations have no upsell hint.
func nextTier(s ServiceType, pages int) (*int, *int) {
	if s == ServicePresentation {
		return nil, nil
	}
	switch {
	case pages < 5:
		return intPtr(5), intPtr(10)
	case pages < 10:
		return intPtr(10), intPtr(15)
	case pages < 15:
		return intPtr(15), intPtr(20)
	}
	return nil, nil
}

func weekendMinimumPages(s ServiceType) int {
	if s == ServicePresentation {
		return 5
	}
	return 3
}

func competitorMultiplier(s ServiceType) float64 {
	switch s {
	case ServicePresentation:
		return 1.6
	case ServiceEditing:
		return 1.3
	default:
		return 1.4
	}
}

func isWeekend(now time.Time) bool {
	d := now.Weekday()
	return d == time.Saturday || d == time.Sunday
}

// Unlisted short keys such as "0" are rush orders without a fee.
func isRush(deadline string) bool {
	n, err := strconv.Atoi(deadline)
	return err == nil && n <= 3
}

// IsKnownDeadline reports whether d is one of Deadlines.
func IsKnownDeadline(d string) bool {
	_, ok := deadlineMultipliers[strings.TrimSpace(d)]
	return ok
}

// DeadlineDays parses a deadline key; unknown keys give 0.
func DeadlineDays(d string) int {
	n, err := strconv.Atoi(strings.TrimSpace(d))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
