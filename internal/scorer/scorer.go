package scorer

import (
	"math"
	"sort"

	"github.com/clausewise/clausewise/pkg/models"
)

// DefaultTopClauses is how many ranked clauses a Comparison carries.
const DefaultTopClauses = 10

// neutralWeight applies to tags with no profile-backed tolerance.
const neutralWeight = 50

// weights maps each profile-backed tag to its category weight: a high
// tolerance means a low weight. Unknown tags score at neutralWeight.
func weights(profile models.RiskProfile) map[models.ClauseTag]int {
	return map[models.ClauseTag]int{
		models.TagPrivacyData: 100 - profile.Privacy,
		models.TagAutoRenewal: 100 - profile.AutoRenewals,
		models.TagArbitration: 100 - profile.Arbitration,
	}
}

// Score computes riskScore = round(severity * weight / 100) for each
// clause, an integer in [0,100] monotonic in both inputs. The returned
// slice is a scored copy in input order.
func Score(clauses []models.Clause, profile models.RiskProfile) []models.Clause {
	w := weights(profile)
	scored := make([]models.Clause, len(clauses))
	for i, c := range clauses {
		weight, ok := w[c.Tag]
		if !ok {
			weight = neutralWeight
		}
		c.RiskScore = int(math.Round(float64(c.Severity) * float64(weight) / 100))
		scored[i] = c
	}
	return scored
}

// Compare scores all clauses against the profile and ranks them. Top holds
// the topN highest riskScores, descending, ties keeping input order;
// Counts tallies every scored clause by tag, not just Top.
func Compare(clauses []models.Clause, profile models.RiskProfile, topN int) models.Comparison {
	if topN <= 0 {
		topN = DefaultTopClauses
	}

	scored := Score(clauses, profile)

	top := make([]models.Clause, len(scored))
	copy(top, scored)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].RiskScore > top[j].RiskScore
	})
	if len(top) > topN {
		top = top[:topN]
	}

	counts := make(map[models.ClauseTag]int)
	for _, c := range scored {
		counts[c.Tag]++
	}

	return models.Comparison{Top: top, Counts: counts}
}
