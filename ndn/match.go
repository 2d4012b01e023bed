package ndn

// MatchesInterest implements spec.md §4.2's Data/Interest matching
// algorithm, shared by the certificate cache and the engine's PIT: a
// candidate matches iff its name has the interest's name as a prefix, the
// remaining suffix length is within [minSuffixComponents,
// maxSuffixComponents], MustBeFresh is honored, and the first suffix
// component is not excluded. The engine's PIT clears MustBeFresh before
// calling it, so freshness only restricts cache lookups.
func MatchesInterest(d *Data, i *Interest) bool {
	if !i.Name.IsPrefixOf(d.Name) {
		return false
	}
	suffixLen := len(d.Name) - len(i.Name)

	if i.Selectors.MinSuffixComponents != nil && suffixLen < *i.Selectors.MinSuffixComponents {
		return false
	}
	if i.Selectors.MaxSuffixComponents != nil && suffixLen > *i.Selectors.MaxSuffixComponents {
		return false
	}
	if i.Selectors.MustBeFresh && d.MetaInfo.FreshnessPeriod <= 0 {
		return false
	}
	if suffixLen > 0 && len(i.Selectors.Exclude) > 0 {
		firstSuffix := d.Name[len(i.Name)]
		if i.Selectors.Exclude.MatchesAny(firstSuffix) {
			return false
		}
	}
	return true
}
