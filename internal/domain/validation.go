package domain

import "strings"

// NormalizeName trims a site or identity name and collapses internal runs of
// whitespace, matching how names are stored in the registry.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ValidateSlots checks that every non-empty slot references a registered site
// and identity and carries non-negative amounts. Validation happens before
// any local or remote mutation.
func ValidateSlots(slots [SlotCount]Slot, knownSites, knownIdentities []string) error {
	siteSet := make(map[string]struct{}, len(knownSites))
	for _, s := range knownSites {
		siteSet[NormalizeName(s)] = struct{}{}
	}
	identitySet := make(map[string]struct{}, len(knownIdentities))
	for _, id := range knownIdentities {
		identitySet[NormalizeName(id)] = struct{}{}
	}

	for _, slot := range slots {
		if slot.IsEmpty() {
			continue
		}
		if _, ok := siteSet[NormalizeName(slot.Site)]; !ok {
			return ErrUnknownSite
		}
		if _, ok := identitySet[NormalizeName(slot.Identity)]; !ok {
			return ErrUnknownIdentity
		}
		if slot.Deposit.IsNegative() || slot.Withdraw.IsNegative() {
			return ErrInvalidAmount
		}
	}

	return nil
}
