package models

type VerdictKind string

const (
	VerdictAlive            VerdictKind = "alive"
	VerdictDeadInternal     VerdictKind = "dead_internal"
	VerdictDeadExternal     VerdictKind = "dead_external"
	VerdictShouldBeRelative VerdictKind = "should_be_relative"
	VerdictIgnored          VerdictKind = "ignored"
)

// Verdict is the terminal classification of one link reference.
// StatusCode is zero when no HTTP status was observed.
type Verdict struct {
	Seq        int
	Kind       VerdictKind
	Link       LinkReference
	StatusCode int
	Reason     string
}

func (v Verdict) IsDead() bool {
	return v.Kind == VerdictDeadInternal || v.Kind == VerdictDeadExternal
}
