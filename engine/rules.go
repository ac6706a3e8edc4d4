package engine

// VulnerabilityCycle selects how board numbers map to vulnerability.
type VulnerabilityCycle uint8

const (
	// CycleFourBoards repeats none / NS / EW / both every four boards.
	CycleFourBoards VulnerabilityCycle = 0
	// CycleSixteenBoards is the ACBL-standard 16-board rotation.
	CycleSixteenBoards VulnerabilityCycle = 1
)

// TableRules holds configurable per-table rule settings.
type TableRules struct {
	VulnerabilityCycle VulnerabilityCycle
}

// DefaultTableRules returns the standard table rules.
func DefaultTableRules() TableRules {
	return TableRules{
		VulnerabilityCycle: CycleFourBoards,
	}
}
