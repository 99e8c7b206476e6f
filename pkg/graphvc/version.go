package graphvc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultBranch is the branch versions land on when none is named.
const DefaultBranch = "main"

// initialVersionNumber is assigned to the first version on a branch.
const initialVersionNumber = "1.0.0"

// Version is an immutable snapshot of a workflow graph plus provenance.
//
// The stored Graph is a deep copy taken at creation and is never
// mutated afterwards; every edit produces a new Version. Versions are
// never deleted; history is forward-only.
type Version struct {
	ID            string    `json:"id"`
	WorkflowID    string    `json:"workflowId"`
	VersionNumber string    `json:"versionNumber"` // semantic major.minor.patch
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Graph         *Graph    `json:"graph"`
	Author        string    `json:"author"`
	CreatedAt     time.Time `json:"createdAt"`
	ParentID      string    `json:"parentVersionId,omitempty"`
	Branch        string    `json:"branch"`
	Tags          []string  `json:"tags,omitempty"`
	IsActive      bool      `json:"isActive"`
	Metadata      Metadata  `json:"metadata"`
}

// Same reports whether two versions hold structurally identical graphs.
// Checksum equality is the fast path; a mismatch is authoritative for
// inequality, a match is confirmed structurally.
func (v *Version) Same(other *Version) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Metadata.Checksum != other.Metadata.Checksum {
		return false
	}
	return string(v.Graph.canonical()) == string(other.Graph.canonical())
}

// HasTag reports whether the version carries the given tag.
func (v *Version) HasTag(tag string) bool {
	for _, t := range v.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// clone returns a copy safe to hand to callers: mutating the returned
// version (or its graph or tags) never touches engine state.
func (v *Version) clone() *Version {
	if v == nil {
		return nil
	}
	out := *v
	out.Graph = v.Graph.Clone()
	out.Tags = append([]string(nil), v.Tags...)
	return &out
}

// nextVersionNumber increments the patch component of a semantic
// version string. Malformed input restarts at the initial number.
func nextVersionNumber(current string) string {
	parts := strings.Split(current, ".")
	if len(parts) != 3 {
		return initialVersionNumber
	}
	major, err1 := strconv.Atoi(parts[0])
	minor, err2 := strconv.Atoi(parts[1])
	patch, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return initialVersionNumber
	}
	return fmt.Sprintf("%d.%d.%d", major, minor, patch+1)
}

// compareVersionNumbers orders two semantic version strings.
// Returns -1, 0, or 1. Malformed components compare as zero.
func compareVersionNumbers(a, b string) int {
	pa := strings.Split(a, ".")
	pb := strings.Split(b, ".")
	for i := 0; i < 3; i++ {
		var na, nb int
		if i < len(pa) {
			na, _ = strconv.Atoi(pa[i])
		}
		if i < len(pb) {
			nb, _ = strconv.Atoi(pb[i])
		}
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
	}
	return 0
}
