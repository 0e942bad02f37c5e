package ringbench

import (
	"fmt"
	"strings"
)

// Region identifies which guard canary mismatched.
type Region string

const (
	RegionBefore Region = "before" // leading canary, ahead of the saved-state region
	RegionAfter  Region = "after"  // trailing canary, just past the stack buffer
)

// Finding reports one corrupted guard canary.
type Finding struct {
	Slot   int
	Region Region
}

func (f Finding) String() string {
	return fmt.Sprintf("slot %d: corruption %s region", f.Slot, f.Region)
}

// Report is the outcome of post-run canary validation. Detection only: no
// recovery, no retry.
type Report struct {
	Findings []Finding
}

// OK reports whether every slot's live canaries still match their shadow
// copies.
func (r Report) OK() bool { return len(r.Findings) == 0 }

func (r Report) String() string {
	if r.OK() {
		return "canaries intact"
	}
	parts := make([]string, len(r.Findings))
	for i, f := range r.Findings {
		parts[i] = f.String()
	}
	return strings.Join(parts, "; ")
}

// Verify compares every slot's live canary values against the shadow copies
// taken at initialization. Each region of each slot is checked independently,
// so multiple slots may report. Verifying a released pool reports nothing.
func (p *Pool) Verify() Report {
	var rep Report
	if p.backing == nil {
		return rep
	}
	for i := range p.slots {
		s := &p.slots[i]
		if s.liveBefore() != s.shadow.Before {
			rep.Findings = append(rep.Findings, Finding{Slot: i, Region: RegionBefore})
		}
		if s.liveAfter() != s.shadow.After {
			rep.Findings = append(rep.Findings, Finding{Slot: i, Region: RegionAfter})
		}
	}
	return rep
}
