package service

import (
	"context"
	"fmt"
	"strings"

	"deal_poster/internal/domain"
)

var platformNames = map[domain.Platform]string{
	domain.PlatformSteam: "Steam",
	domain.PlatformEpic:  "Epic Games",
	domain.PlatformGOG:   "GOG",
}

// caption builds the post text. USD prices get a TRY conversion appended;
// the converter falls back to a fixed rate internally, so this never
// blocks publishing.
func (p *Pipeline) caption(ctx context.Context, d domain.Deal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s [%s]\n", d.Title, platformNames[d.Platform])

	if d.Giveaway() {
		b.WriteString("FREE for a limited time (-100%)\n")
	} else {
		fmt.Fprintf(&b, "-%d%% | now %s\n", d.DiscountPercent, p.priceLine(ctx, d))
	}

	if d.ReviewScore > 0 && d.ReviewCount > 0 {
		fmt.Fprintf(&b, "%d%% positive (%d reviews)\n", d.ReviewScore, d.ReviewCount)
	}

	b.WriteString(d.URL)
	return b.String()
}

func (p *Pipeline) priceLine(ctx context.Context, d domain.Deal) string {
	if d.Currency != "USD" {
		return fmt.Sprintf("%.2f %s", d.FinalPrice, d.Currency)
	}
	try := p.converter.Convert(ctx, d.FinalPrice, "USD", "TRY")
	return fmt.Sprintf("$%.2f (~%.2f TRY)", d.FinalPrice, try)
}
