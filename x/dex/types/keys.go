package types

import "regexp"

const (
	// ModuleName defines the module name
	ModuleName = "dex"

	// ModuleAccount is the ledger account that holds pool reserves and
	// cross-chain escrow balances.
	ModuleAccount = "dexcore"
)

// identifierPattern constrains asset denoms and account addresses that end up
// embedded in store keys: leading letter, printable charset, bounded length.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9/:._-]{2,127}$`)

// ValidateIdentifier rejects denoms and addresses whose bytes could collide
// with the NUL separators used in composite store keys.
func ValidateIdentifier(s string) error {
	if !identifierPattern.MatchString(s) {
		return ErrInvalidIdentifier.Wrapf("%q must match %s", s, identifierPattern)
	}
	return nil
}
