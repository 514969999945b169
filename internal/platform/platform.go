// Package platform classifies the current operating system into a closed
// set of families and maps generic tasks to their platform-specific
// variants. Detection happens once per run; everything downstream branches
// on the resolved Family value, never on raw OS strings.
package platform

import (
	"fmt"
	"runtime"
	"sort"
)

// Family is one of the operating-system families the orchestrator knows
// about. The set is closed: an unrecognized GOOS maps to no Family at all
// rather than to a catch-all value.
type Family int

const (
	Linux Family = iota
	Darwin
	Windows
	FreeBSD
	OpenBSD
	NetBSD
	Solaris
	AIX
)

var familyNames = map[Family]string{
	Linux:   "linux",
	Darwin:  "darwin",
	Windows: "windows",
	FreeBSD: "freebsd",
	OpenBSD: "openbsd",
	NetBSD:  "netbsd",
	Solaris: "solaris",
	AIX:     "aix",
}

// String returns the lowercase family name used as the key in task files.
func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// FamilyFromGOOS is the single point converting a GOOS string into a
// Family. It reports false for operating systems outside the closed set.
func FamilyFromGOOS(goos string) (Family, bool) {
	for family, name := range familyNames {
		if name == goos {
			return family, true
		}
	}
	return 0, false
}

// Detect probes the current runtime and returns its Family.
func Detect() (Family, error) {
	family, ok := FamilyFromGOOS(runtime.GOOS)
	if !ok {
		return 0, &UnsupportedPlatformError{GOOS: runtime.GOOS}
	}
	return family, nil
}

// Selector resolves generic task references to platform-specific task
// names using a static per-task lookup table. The family is fixed at
// construction, so repeated selections within one run are deterministic.
type Selector struct {
	family Family
}

// NewSelector returns a Selector bound to the given family.
func NewSelector(family Family) *Selector {
	return &Selector{family: family}
}

// Family returns the family the selector is bound to.
func (s *Selector) Family() Family {
	return s.family
}

// Select picks the concrete task name for the bound family from the given
// variant table (family name -> task name). The table comes from a task's
// platform block. A missing entry fails with *UnsupportedPlatformError.
func (s *Selector) Select(taskName string, variants map[string]string) (string, error) {
	concrete, ok := variants[s.family.String()]
	if !ok {
		return "", &UnsupportedPlatformError{
			Task:     taskName,
			Family:   s.family.String(),
			Variants: variantKeys(variants),
		}
	}
	return concrete, nil
}

func variantKeys(variants map[string]string) []string {
	keys := make([]string, 0, len(variants))
	for key := range variants {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// UnsupportedPlatformError reports that no task variant exists for the
// detected operating-system family.
type UnsupportedPlatformError struct {
	// GOOS is set when detection itself failed.
	GOOS string
	// Task and Variants are set when a variant table had no entry.
	Task     string
	Family   string
	Variants []string
}

func (e *UnsupportedPlatformError) Error() string {
	if e.GOOS != "" {
		return fmt.Sprintf("unsupported operating system %q", e.GOOS)
	}
	return fmt.Sprintf("task %q has no variant for platform %q (have: %v)", e.Task, e.Family, e.Variants)
}
