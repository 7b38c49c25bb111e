package ingest

import (
	"fmt"

	"github.com/aledsdavies/lamp/annotation"
	"github.com/aledsdavies/lamp/cmderrors"
	"golang.org/x/mod/semver"
)

// FrameworkVersion is the dispatch core's own semver, checked against any
// declaration carrying a MinFrameworkVersion annotation.
const FrameworkVersion = "v1.0.0"

// MinFrameworkVersion declares the minimum core version a declaration
// requires, rejecting registration at build time on an older core (spec
// §6: embedder-supplied declaration annotations beyond the core's fixed
// set are consulted where the core defines a hook for them).
type MinFrameworkVersion struct {
	Version string
}

func checkMinFrameworkVersion(anns annotation.List) error {
	min, ok := annotation.Lookup[MinFrameworkVersion](anns)
	if !ok {
		return nil
	}
	if !semver.IsValid(min.Version) {
		return cmderrors.MalformedPath("", fmt.Sprintf("invalid MinFrameworkVersion %q", min.Version))
	}
	if semver.Compare(FrameworkVersion, min.Version) < 0 {
		return cmderrors.MalformedPath("", fmt.Sprintf("declaration requires framework %s, have %s", min.Version, FrameworkVersion))
	}
	return nil
}
