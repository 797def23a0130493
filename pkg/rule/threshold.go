package rule

// ComparisonValue returns the value eligibleCount is compared against.
// Percent thresholds scale the denominator; a zero denominator yields zero.
func ComparisonValue(c Conditions, denominator int) float64 {
	if c.ThresholdType == ThresholdPercent {
		return float64(denominator) * (c.Threshold / 100)
	}
	return c.Threshold
}

// Passes decides whether eligibleCount satisfies the rule's threshold.
func Passes(eligibleCount int, c Conditions, denominator int) bool {
	return c.Comparator.Compare(float64(eligibleCount), ComparisonValue(c, denominator))
}
