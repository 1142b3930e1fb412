package service

import (
	"fmt"
	"math/big"
	"time"

	"github.com/set-night/influnest/internal/config"
	"github.com/set-night/influnest/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var hundred = big.NewInt(100)

// MapStatus converts the on-chain status enum. Unknown codes map to PENDING.
func MapStatus(code uint8) domain.CampaignStatus {
	switch code {
	case 0:
		return domain.StatusPending
	case 1:
		return domain.StatusActive
	case 2:
		return domain.StatusCompleted
	case 3:
		return domain.StatusExpired
	case 4:
		return domain.StatusCancelled
	default:
		return domain.StatusPending
	}
}

// ComputeProgress returns the completion of the best-performing metric as a
// percentage in [0,100]. A zero target contributes nothing.
func ComputeProgress(currentLikes, currentViews, targetLikes, targetViews *big.Int) int {
	likes := percentOf(currentLikes, targetLikes)
	views := percentOf(currentViews, targetViews)

	best := likes
	if views.Cmp(best) > 0 {
		best = views
	}
	if best.Cmp(hundred) > 0 {
		return 100
	}
	return int(best.Int64())
}

func percentOf(current, target *big.Int) *big.Int {
	if target == nil || target.Sign() <= 0 || current == nil || current.Sign() <= 0 {
		return new(big.Int)
	}
	p := new(big.Int).Mul(current, hundred)
	return p.Quo(p, target)
}

// FormatAddress shortens an address to its first 6 and last 4 characters.
func FormatAddress(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// FormatMoney renders a wei amount as an exact decimal ether string.
func FormatMoney(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -config.EtherDecimals).String()
}

// FormatDate renders epoch seconds as a UTC calendar date.
func FormatDate(epochSeconds *big.Int) string {
	if epochSeconds == nil || !epochSeconds.IsInt64() {
		return ""
	}
	return time.Unix(epochSeconds.Int64(), 0).UTC().Format(time.DateOnly)
}

// ToCampaign builds the display snapshot for one campaign.
func ToCampaign(id uint64, d *domain.CampaignDetails) domain.Campaign {
	return domain.Campaign{
		ID:           id,
		Title:        fmt.Sprintf("Campaign #%d", id),
		Brand:        FormatAddress(d.Brand.Hex()),
		Creator:      FormatAddress(d.Creator.Hex()),
		TotalValue:   FormatMoney(d.TotalValue),
		PaidAmount:   FormatMoney(d.PaidAmount),
		Deadline:     bigString(d.Deadline),
		EndDate:      FormatDate(d.Deadline),
		TargetLikes:  bigString(d.TargetLikes),
		TargetViews:  bigString(d.TargetViews),
		CurrentLikes: bigString(d.CurrentLikes),
		CurrentViews: bigString(d.CurrentViews),
		Status:       MapStatus(d.Status),
		Progress:     ComputeProgress(d.CurrentLikes, d.CurrentViews, d.TargetLikes, d.TargetViews),
	}
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// ParseEther converts a decimal ether amount to wei, rounding below 1 wei.
func ParseEther(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("parse ether amount %q: %w", s, err)
	}
	return d.Shift(config.EtherDecimals).Round(0).BigInt(), nil
}

// FormatBalance renders a wei balance with 2 to 4 fraction digits and
// thousands grouping, e.g. "1,234.5678".
func FormatBalance(wei *big.Int) string {
	p := message.NewPrinter(language.English)
	return p.Sprint(number.Decimal(WeiToEther(wei).InexactFloat64(),
		number.MinFractionDigits(2),
		number.MaxFractionDigits(4),
	))
}

// WeiToEther converts wei to an ether decimal.
func WeiToEther(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -config.EtherDecimals)
}

// EstimateUSD prices an ether amount at a fixed rate.
func EstimateUSD(ether decimal.Decimal, rate float64) decimal.Decimal {
	return ether.Mul(decimal.NewFromFloat(rate)).Round(2)
}
