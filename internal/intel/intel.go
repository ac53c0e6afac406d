package intel

// Intelligence category names. These are the fixed buckets the honeypot
// collects across a conversation.
const (
	CategoryBankAccounts       = "bank_accounts"
	CategoryUPIIDs             = "upi_ids"
	CategoryURLs               = "urls"
	CategoryPhoneNumbers       = "phone_numbers"
	CategorySuspiciousKeywords = "suspicious_keywords"
)

// SignificantCategories are the buckets whose presence alone warrants a
// report, regardless of conversation length.
var SignificantCategories = []string{
	CategoryBankAccounts,
	CategoryUPIIDs,
	CategoryURLs,
	CategoryPhoneNumbers,
}

// Intelligence maps a category name to the unique values collected for it.
// Values only ever accumulate; nothing is removed within a session.
type Intelligence map[string][]string

// Add unions values into the category, dropping duplicates
// (case-sensitive). Empty strings are ignored.
func (in Intelligence) Add(category string, values ...string) {
	if len(values) == 0 {
		return
	}
	existing := in[category]
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		seen[v] = true
	}
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		existing = append(existing, v)
	}
	in[category] = existing
}

// Merge unions every category of other into in. Categories absent from
// other are left untouched.
func (in Intelligence) Merge(other Intelligence) {
	for category, values := range other {
		in.Add(category, values...)
	}
}

// HasSignificant reports whether any significant category is non-empty.
func (in Intelligence) HasSignificant() bool {
	for _, category := range SignificantCategories {
		if len(in[category]) > 0 {
			return true
		}
	}
	return false
}

// HasValues reports whether any category at all is non-empty.
func (in Intelligence) HasValues() bool {
	for _, values := range in {
		if len(values) > 0 {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, safe to hand to another goroutine.
func (in Intelligence) Clone() Intelligence {
	out := make(Intelligence, len(in))
	for category, values := range in {
		cp := make([]string, len(values))
		copy(cp, values)
		out[category] = cp
	}
	return out
}
