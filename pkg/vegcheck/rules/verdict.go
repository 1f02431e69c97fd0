package rules

// FinalVerdict reduces a bucketed result set to one overall verdict.
// Precedence is fixed and count-independent: any danger entry forces
// danger; otherwise any warning or unknown entry forces warning; only a
// fully-safe set yields safe. Unknown items require caution and are never
// resolved to safe by default.
func FinalVerdict(b Buckets) Status {
	if len(b.Danger) > 0 {
		return StatusDanger
	}
	if len(b.Warning) > 0 || len(b.Unknown) > 0 {
		return StatusWarning
	}
	return StatusSafe
}
