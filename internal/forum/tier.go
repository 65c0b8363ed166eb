package forum

// Subscription tiers, ordered FREE < PRO < SCHOLAR.
const (
	TierFree    = "FREE"
	TierPro     = "PRO"
	TierScholar = "SCHOLAR"
)

var tierOrder = map[string]int{
	TierFree:    0,
	TierPro:     1,
	TierScholar: 2,
}

// allTiers is ordered by rank so VisibleTiers output is deterministic.
var allTiers = []string{TierFree, TierPro, TierScholar}

// MeetsMinimumTier reports whether userTier grants access to content gated
// at requiredTier. Unrecognized tier values on either side are treated
// permissively rather than denying access.
func MeetsMinimumTier(userTier, requiredTier string) bool {
	u, ok := tierOrder[userTier]
	if !ok {
		return true
	}
	r, ok := tierOrder[requiredTier]
	if !ok {
		return true
	}
	return u >= r
}

// VisibleTiers returns the category tiers a user at userTier may see, for
// use in an IN clause. An unrecognized tier sees everything, matching
// MeetsMinimumTier's permissive posture.
func VisibleTiers(userTier string) []string {
	rank, ok := tierOrder[userTier]
	if !ok {
		rank = len(allTiers) - 1
	}
	return allTiers[:rank+1]
}
