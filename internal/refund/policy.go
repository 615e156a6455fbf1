// Package refund computes cancellation refunds from a configurable tier table.
package refund

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"drivehub-booking/internal/domain"
)

// Assessment is the outcome of a refund policy evaluation.
type Assessment struct {
	Percent int
	Amount  float64
}

// Policy decides how much of the captured amount is returned when a booking
// is cancelled. Implementations must be pure; the orchestrator supplies the
// cancellation time.
type Policy interface {
	Assess(cancelledAt, pickupAt time.Time, by domain.Actor, capturedAmount float64) Assessment
}

// Tier grants Percent when the cancellation happens at least Before hours
// ahead of pickup.
type Tier struct {
	Before  time.Duration
	Percent int
}

// TierPolicy is the production Policy: a table of cutoffs evaluated from the
// most generous tier down, with a host override. Host-initiated cancellations
// always refund in full regardless of timing.
type TierPolicy struct {
	tiers       []Tier
	hostPercent int
}

func NewTierPolicy(tiers []Tier, hostPercent int) (*TierPolicy, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("refund policy requires at least one tier")
	}
	if hostPercent < 0 || hostPercent > 100 {
		return nil, fmt.Errorf("host refund percent %d out of range", hostPercent)
	}
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before > sorted[j].Before
	})
	for _, t := range sorted {
		if t.Percent < 0 || t.Percent > 100 {
			return nil, fmt.Errorf("tier percent %d out of range", t.Percent)
		}
	}
	return &TierPolicy{tiers: sorted, hostPercent: hostPercent}, nil
}

func (p *TierPolicy) Assess(cancelledAt, pickupAt time.Time, by domain.Actor, capturedAmount float64) Assessment {
	if by == domain.ActorHost {
		return assessment(p.hostPercent, capturedAmount)
	}

	lead := pickupAt.Sub(cancelledAt)
	if lead < 0 {
		lead = 0
	}
	for _, t := range p.tiers {
		if lead >= t.Before {
			return assessment(t.Percent, capturedAmount)
		}
	}
	return assessment(0, capturedAmount)
}

func assessment(percent int, captured float64) Assessment {
	// Round once, in minor units, so the refund never exceeds the capture.
	minor := domain.ToMinorUnits(captured) * int64(percent) / 100
	return Assessment{
		Percent: percent,
		Amount:  domain.FromMinorUnits(minor),
	}
}

// ParseTiers parses a tier table of the form "48h:100,24h:50,0h:0" where the
// duration is the minimum lead time before pickup and the number is the
// refund percent granted at that lead time.
func ParseTiers(s string) ([]Tier, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty refund tier table")
	}

	var tiers []Tier
	for _, entry := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed refund tier %q", entry)
		}
		before, err := time.ParseDuration(parts[0])
		if err != nil {
			return nil, fmt.Errorf("malformed tier cutoff %q: %w", parts[0], err)
		}
		percent, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("malformed tier percent %q: %w", parts[1], err)
		}
		tiers = append(tiers, Tier{Before: before, Percent: percent})
	}
	return tiers, nil
}
